// Package zones decides what zones a map gets and where their satellites
// cluster. Placement searches are delegated to a Placer so the grid logic
// stays with the object handler.
package zones

import (
	"fmt"

	"github.com/hwae/hwae-go/internal/mask"
)

// Type is the gameplay purpose of a zone.
type Type int

const (
	TypeBase Type = iota
	TypeScrap
)

func (t Type) String() string {
	switch t {
	case TypeBase:
		return "base"
	case TypeScrap:
		return "scrap"
	}
	return "unknown"
}

// Size determines a zone's radius and object budget.
type Size int

const (
	SizeTiny Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeXLarge
)

func (s Size) String() string {
	switch s {
	case SizeTiny:
		return "tiny"
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	case SizeXLarge:
		return "xlarge"
	}
	return "unknown"
}

// Subtype refines a zone's purpose and selects its object pools.
type Subtype int

const (
	SubtypeGenericBase Subtype = iota
	SubtypePumpOutpost
	SubtypeDestroyedBase
	SubtypeOldTankBattle
	SubtypeFuelTanks
	SubtypeWeaponCrate
)

func (s Subtype) String() string {
	switch s {
	case SubtypeGenericBase:
		return "generic_base"
	case SubtypePumpOutpost:
		return "pump_outpost"
	case SubtypeDestroyedBase:
		return "destroyed_base"
	case SubtypeOldTankBattle:
		return "old_tank_battle"
	case SubtypeFuelTanks:
		return "fuel_tanks"
	case SubtypeWeaponCrate:
		return "weapon_crate"
	}
	return "unknown"
}

// Radius and object budget per size, indexed by Size.
var (
	sizeRadius     = [...]int{8, 12, 16, 22, 28}
	sizeNumObjects = [...]int{4, 10, 16, 24, 32}
)

// RadiusForSize returns the disc radius for a zone size in grid cells.
func RadiusForSize(s Size) int { return sizeRadius[s] }

// NumObjectsForSize returns the object budget for a zone size.
func NumObjectsForSize(s Size) int { return sizeNumObjects[s] }

// NoTeam marks a zone without an enemy team grouping.
const NoTeam = -1

// Marker records a placed zone. Markers are append-only: once placed a zone
// is never moved or deleted.
type Marker struct {
	X, Z    int
	Type    Type
	Size    Size
	Subtype Subtype

	// TeamIndex groups a base and its satellites onto one enemy team.
	// NoTeam when the zone has no grouping.
	TeamIndex int

	// Satellite is set on zones queued as outposts of a parent base.
	Satellite bool

	disc *mask.Grid
}

func (m *Marker) String() string {
	return fmt.Sprintf("zone(%s/%s/%s at %d,%d)", m.Type, m.Subtype, m.Size, m.X, m.Z)
}

// Radius returns the zone's disc radius in grid cells.
func (m *Marker) Radius() int { return sizeRadius[m.Size] }

// NumObjects returns the zone's object budget.
func (m *Marker) NumObjects() int { return sizeNumObjects[m.Size] }

// Mask returns (building lazily) the zone's inclusion disc on a grid of the
// given dimensions: 1 inside the zone, 0 outside.
func (m *Marker) Mask(width, length int) *mask.Grid {
	if m.disc == nil || m.disc.Width != width || m.disc.Length != length {
		m.disc = mask.New(width, length)
		m.disc.StampDisc(m.X, m.Z, m.Radius(), 1)
	}
	return m.disc
}
