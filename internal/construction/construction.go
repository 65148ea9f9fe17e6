// Package construction randomises what the player can build in a level and
// writes the choices into the trigger script.
package construction

import (
	"strings"

	"github.com/hwae/hwae-go/internal/logger"
	"github.com/hwae/hwae-go/internal/rng"
	"github.com/hwae/hwae-go/pkg/formats"
)

// buildSetupRecord is the trigger every availability action is attached to.
const buildSetupRecord = "BUILD_SETUP"

// Pools of optional unlocks. Harvester, Lifter, carrier guns, the soul unit
// and the scav unit are granted by the base script in every level.
var (
	availableVehicles = []string{
		"chopper",
		"HeavyTank",
		"Supertank",
		"Superchopper",
		"Hovertank",
		"Reconbuggy",
		"Staticplatform",
		"Bomber",
		"Superhover",
	}
	availableSoulcatchers = []string{
		"Ransom",
		"Borden",
		"Madsen",
		"Sinclair",
		"Kroker",
		"Patton",
		"Korolev",
		"Elroy",
		"Kenzie",
		"Lazare",
	}
	availableWeapons = []string{
		"Minigun",
		"Missile",
		"Flamer",
		"Lobber",
		"EMP",
		"Laser",
	}
	availableAddons = []string{
		"armour",
		"Cooler",
		"Shield",
		"Cloak",
		"Repair",
	}
)

// IncludeLists lets the map config force specific unlocks in.
type IncludeLists struct {
	Vehicles     []string
	Soulcatchers []string
	Weapons      []string
	Addons       []string
}

// Manager owns the build availability of one run.
type Manager struct {
	ars      *formats.Ars
	gen      *rng.Generator
	includes IncludeLists
}

// NewManager wraps the level's trigger script.
func NewManager(ars *formats.Ars, gen *rng.Generator, includes IncludeLists) *Manager {
	return &Manager{ars: ars, gen: gen, includes: includes}
}

func (m *Manager) makeAvailable(unit string) {
	m.ars.AddActionToExistingRecord(buildSetupRecord,
		"AIScript_MakeAvailableForBuilding",
		[]string{
			"AIS_SPECIFICPLAYER : 0",
			"AIS_UNITTYPE_SPECIFIC : " + unit,
		})
}

// mergeIncludes appends configured extras, skipping duplicates and names
// outside the allowed pool.
func mergeIncludes(picked, extras, pool []string) []string {
	for _, extra := range extras {
		if contains(picked, extra) || !contains(pool, extra) {
			logger.Sugar.Infow("configured include skipped", "unit", extra)
			continue
		}
		logger.Sugar.Infow("adding configured include", "unit", extra)
		picked = append(picked, extra)
	}
	return picked
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m *Manager) selectRandomVehicles() {
	picked := rng.RandomSublist(m.gen, availableVehicles, 2, 9999)
	picked = mergeIncludes(picked, m.includes.Vehicles, availableVehicles)
	for _, v := range picked {
		m.makeAvailable(v)
	}
	logger.Sugar.Infow("vehicles unlocked", "count", len(picked))
}

func (m *Manager) selectRandomSoulcatchers() {
	picked := rng.RandomSublist(m.gen, availableSoulcatchers, 6, 9999)
	picked = mergeIncludes(picked, m.includes.Soulcatchers, availableSoulcatchers)
	for _, s := range picked {
		m.makeAvailable(s)
	}
	logger.Sugar.Infow("soulcatchers unlocked", "count", len(picked))
}

func (m *Manager) selectRandomWeapons() {
	picked := rng.RandomSublist(m.gen, []string{"Minigun", "Missile"}, 1, 9999)

	// at least one weapon beyond EMP, which is useless on its own
	var nonEMP []string
	for _, w := range availableWeapons {
		if w != "EMP" {
			nonEMP = append(nonEMP, w)
		}
	}
	for _, w := range rng.RandomSublist(m.gen, nonEMP, 1, 1) {
		if !contains(picked, w) {
			picked = append(picked, w)
		}
	}
	for _, w := range rng.RandomSublist(m.gen, availableWeapons, 0, 9999) {
		if !contains(picked, w) {
			picked = append(picked, w)
		}
	}
	picked = mergeIncludes(picked, m.includes.Weapons, availableWeapons)
	for _, w := range picked {
		m.makeAvailable(w)
	}
	logger.Sugar.Infow("weapons unlocked", "count", len(picked))
}

func (m *Manager) selectRandomAddons() {
	picked := rng.RandomSublist(m.gen, availableAddons, 1, 9999)
	picked = mergeIncludes(picked, m.includes.Addons, availableAddons)
	for _, a := range picked {
		m.makeAvailable(a)
	}
	logger.Sugar.Infow("addons unlocked", "count", len(picked))
}

// SelectRandomConstructionAvailability picks the vehicles, soulcatcher
// chips, weapons and addons this level unlocks and records them in the
// trigger script.
func (m *Manager) SelectRandomConstructionAvailability() {
	m.selectRandomVehicles()
	m.selectRandomSoulcatchers()
	m.selectRandomWeapons()
	m.selectRandomAddons()
}

// FindWeaponNotInBuild returns a weapon absent from the build trigger, used
// as the reward of a weapon crate zone. Returns false when every weapon is
// already buildable.
func (m *Manager) FindWeaponNotInBuild() (string, bool) {
	remaining := append([]string(nil), availableWeapons...)
	for _, action := range m.ars.ActionsFromExistingRecord(buildSetupRecord) {
		if action.Type != "AIScript_MakeAvailableForBuilding" || len(action.Values) < 2 {
			continue
		}
		parts := strings.Split(action.Values[1], " : ")
		if len(parts) != 2 {
			continue
		}
		for i, w := range remaining {
			if w == parts[1] {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	if len(remaining) == 0 {
		return "", false
	}
	return rng.SelectRandom(m.gen, remaining), true
}
