// Package generator runs the full map generation pipeline: template
// loading, construction unlocks, terrain shaping, carrier and zone
// placement, population, scripting and final output.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hwae/hwae-go/internal/config"
	"github.com/hwae/hwae-go/internal/construction"
	"github.com/hwae/hwae-go/internal/logger"
	"github.com/hwae/hwae-go/internal/mask"
	"github.com/hwae/hwae-go/internal/minimap"
	"github.com/hwae/hwae-go/internal/objects"
	"github.com/hwae/hwae-go/internal/rng"
	"github.com/hwae/hwae-go/internal/terrain"
	"github.com/hwae/hwae-go/internal/zones"
	"github.com/hwae/hwae-go/pkg/formats"
)

// Only the large (256x256) map template ships for now.
const mapSizeTemplate = "large"

// missionType selects which objective script is appended to the base
// trigger set.
const missionType = "destroy_all"

// rallyScaler converts grid coordinates to the world units the engine
// expects in the RallyPoint config entry.
const rallyScaler = 51.7

// Generator produces one level per Run call from a fixed configuration.
type Generator struct {
	cfg *config.Config
}

// New creates a Generator.
func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// run holds the working state of a single generation.
type run struct {
	cfg *config.Config
	gen *rng.Generator

	levelName string
	levelDir  string

	levCfg *formats.Cfg
	lev    *formats.Lev
	ars    *formats.Ars
	ait    *formats.Ait
	ob3    *formats.Ob3
	pat    *formats.Pat
	ail    *formats.Ail

	terr         *terrain.Terrain
	handler      *objects.Handler
	construction *construction.Manager

	carrierMask    *mask.Grid
	rallyX, rallyZ int
}

// Run generates a complete level into the configured output directory.
func (g *Generator) Run() error {
	seed := g.cfg.Generation.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}

	r := &run{
		cfg:       g.cfg,
		gen:       rng.New(seed),
		levelName: g.cfg.Generation.LevelName,
		levelDir:  filepath.Join(g.cfg.Paths.Output, g.cfg.Generation.LevelName),
	}
	logger.Sugar.Infow("starting map generation",
		"seed", seed, "level", r.levelName, "output", r.levelDir)

	if err := r.setupFiles(); err != nil {
		return fmt.Errorf("setting up level files: %w", err)
	}
	r.selectConstruction()
	if err := r.selectTextureGroup(); err != nil {
		return fmt.Errorf("selecting texture group: %w", err)
	}
	r.buildTerrain()
	if err := r.loadMissionScript(); err != nil {
		return fmt.Errorf("loading mission script: %w", err)
	}
	r.placeCarrierAndZones()
	r.processZones()
	r.addAlienMiscAndPatrols()
	if err := r.renderMinimap(); err != nil {
		return fmt.Errorf("rendering minimap: %w", err)
	}
	if err := r.finaliseTriggers(); err != nil {
		return fmt.Errorf("finalising triggers: %w", err)
	}
	if err := r.saveAll(); err != nil {
		return fmt.Errorf("saving level: %w", err)
	}

	logger.Sugar.Infow("map generation complete", "level", r.levelName)
	return nil
}

// setupFiles parses the map templates, creates the output directory and
// copies over the template files the run does not modify.
func (r *run) setupFiles() error {
	templates := r.cfg.Paths.TemplateDir
	logger.Sugar.Info("loading template files")

	var err error
	if r.levCfg, err = formats.ParseCfgFile(filepath.Join(templates, mapSizeTemplate+".cfg")); err != nil {
		return err
	}
	if r.lev, err = formats.ParseLevFile(filepath.Join(templates, mapSizeTemplate+".lev")); err != nil {
		return err
	}
	if r.ars, err = formats.ParseArsFile(filepath.Join(templates, "common.ars")); err != nil {
		return err
	}
	if r.ait, err = formats.ParseAitFile(filepath.Join(templates, "common.ait")); err != nil {
		return err
	}
	r.ob3 = formats.NewOb3()
	r.pat = formats.NewPat()
	r.ail = formats.NewAil()

	if err := os.MkdirAll(r.levelDir, 0755); err != nil {
		return err
	}
	for _, ext := range []string{".s0u", ".for"} {
		src := filepath.Join(templates, "common"+ext)
		dst := filepath.Join(r.levelDir, r.levelName+ext)
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// selectConstruction rolls the buildable units and the level's starting
// energy.
func (r *run) selectConstruction() {
	logger.Sugar.Info("selecting random construction availability")
	r.construction = construction.NewManager(r.ars, r.gen, construction.IncludeLists{
		Vehicles:     r.cfg.Include.Vehicles,
		Soulcatchers: r.cfg.Include.Soulcatchers,
		Weapons:      r.cfg.Include.Weapons,
		Addons:       r.cfg.Include.Addons,
	})
	r.construction.SelectRandomConstructionAvailability()

	cash := r.gen.RandInt(12, 32) * 250
	r.levCfg.Set("LevelCash", strconv.Itoa(cash))
	logger.Sugar.Infow("starting energy set", "cash", cash)
}

// selectTextureGroup picks a random texture set, writes its palette
// description into the level config and copies the texture images into the
// level directory.
func (r *run) selectTextureGroup() error {
	entries, err := os.ReadDir(r.cfg.Paths.TextureDir)
	if err != nil {
		return err
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	if len(folders) == 0 {
		return fmt.Errorf("no texture groups under %s", r.cfg.Paths.TextureDir)
	}
	idx := 0
	if len(folders) > 1 {
		idx = r.gen.RandInt(0, len(folders)-1)
	}
	group := filepath.Join(r.cfg.Paths.TextureDir, folders[idx])
	logger.Sugar.Infow("texture group selected", "group", folders[idx])

	desc, err := os.ReadFile(filepath.Join(group, "texture_description.txt"))
	if err != nil {
		return err
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(string(desc), "\r\n"), "\n") {
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	r.levCfg.Set("Land Textures", lines...)

	textures, err := filepath.Glob(filepath.Join(group, "*.pcx"))
	if err != nil {
		return err
	}
	for _, src := range textures {
		if err := copyFile(src, filepath.Join(r.levelDir, filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

// buildTerrain shapes the island heightfield and randomises the texture
// tiling.
func (r *run) buildTerrain() {
	logger.Sugar.Info("generating terrain from noise")
	r.terr = terrain.New(r.lev, r.gen)
	r.terr.SetTerrainFromNoise(r.cfg.Terrain.NoiseCutoff)
	r.terr.RandomiseTextureDirs()
}

// loadMissionScript appends the objective triggers for the mission type.
func (r *run) loadMissionScript() error {
	logger.Sugar.Infow("setting mission type", "mission", missionType)
	return r.ars.LoadAdditionalData(
		filepath.Join(r.cfg.Paths.TemplateDir, missionType+".ars"))
}

// placeCarrierAndZones drops the carrier, lays out every zone and records
// the player's rally point.
func (r *run) placeCarrierAndZones() {
	r.handler = objects.NewHandler(r.terr, r.ob3, r.gen, objects.Options{
		WaterCutoff:          r.cfg.Terrain.WaterCutoff,
		CoastRadiusFrac:      r.cfg.Terrain.CoastRadiusFrac,
		ZoneSeparationMargin: r.cfg.Zones.SeparationMargin,
	})

	logger.Sugar.Info("adding carrier")
	r.carrierMask = r.handler.AddCarrierAndReturnMask()

	zoneMgr := zones.NewManager(r.handler, r.gen)

	logger.Sugar.Info("adding scrap zone near carrier")
	_, xr, zr, ok := zoneMgr.AddTinyScrapNearCarrierAndCalcRally(r.carrierMask)
	if !ok {
		logger.Sugar.Warn("no room for the starting scrap zone near the carrier")
	}
	r.rallyX, r.rallyZ = xr, zr
	if len(r.handler.Zones) > 0 {
		r.handler.AddObjectCenteredOnZone("MapRevealer1", r.handler.Zones[0])
	}
	yr := r.terr.Height(xr, zr)
	r.levCfg.Set("RallyPoint", fmt.Sprintf("%.6f,%.6f,%.6f",
		float64(zr)*10*rallyScaler, yr, float64(xr)*10*rallyScaler))

	logger.Sugar.Info("generating enemy base zone")
	zoneMgr.GenerateRandomZones(1, zones.TypeBase)

	scrapCount := r.cfg.Zones.NumScrapZones
	if scrapCount < 0 {
		scrapCount = r.gen.RandInt(1, 3)
	}
	logger.Sugar.Infow("generating additional scrap zones", "count", scrapCount)
	zoneMgr.GenerateRandomZones(scrapCount, zones.TypeScrap)

	extraBases := r.cfg.Zones.NumExtraBases
	if extraBases < 0 {
		extraBases = r.gen.RandInt(0, 3)
	}
	logger.Sugar.Infow("generating additional base zones", "count", extraBases)
	zoneMgr.GenerateRandomZones(extraBases, zones.TypeBase)
}

// Zone discs are painted with a distinct ground material so bases and
// scrap fields read differently on the map.
const (
	baseZoneMaterial  = 1
	scrapZoneMaterial = 2
)

// processZones textures, flattens and populates every placed zone.
func (r *run) processZones() {
	logger.Sugar.Infow("processing zones", "count", len(r.handler.Zones))
	for _, zone := range r.handler.Zones {
		material := uint8(scrapZoneMaterial)
		if zone.Type == zones.TypeBase {
			material = baseZoneMaterial
		}
		r.terr.TextureZone(zone.X, zone.Z, zone.Radius(), material)
		r.terr.FlattenZone(zone.X, zone.Z, zone.Radius())
		r.handler.PopulateZone(zone)
	}
}

// addAlienMiscAndPatrols scatters loose alien defences and wires flying
// units onto a patrol route around the island.
func (r *run) addAlienMiscAndPatrols() {
	logger.Sugar.Info("adding alien miscellaneous objects")
	r.handler.AddAlienMisc(r.rallyX, r.rallyZ)

	logger.Sugar.Info("creating patrol route")
	points := r.handler.CreatePatrolPointsHull(r.gen.RandInt(3, 7))
	r.pat.AddPatrolRecord("patrol1", points)

	flyers := r.gen.RandInt(3, 7)
	logger.Sugar.Infow("adding patrol flyers", "count", flyers)
	for i := 0; i < flyers; i++ {
		flyerType := "SmallFlyer"
		if r.gen.RandInt(0, 11) > 5 {
			flyerType = "MediumFlyer"
		}
		id, ok := r.handler.AddObjectOnLandRandom(flyerType, objects.ObjectPlacement{
			Team:           7,
			RequiredRadius: 1,
			YOffset:        15,
		})
		if !ok {
			continue
		}
		r.ars.AddActionToExistingRecord("HWAE patrol 1",
			"AIScript_AssignRoute",
			[]string{`"patrol1"`, strconv.Itoa(int(id - 1))})
	}
}

// renderMinimap draws the overview map from the final heightfield.
func (r *run) renderMinimap() error {
	logger.Sugar.Info("generating minimap")
	return minimap.Generate(r.terr, r.cfg.Terrain.WaterCutoff, r.levelDir, "map.pcx")
}

// finaliseTriggers wires the weapon crate zone, if one was placed, and
// sets the carrier's shell count.
func (r *run) finaliseTriggers() error {
	var crateZone *zones.Marker
	for _, zone := range r.handler.Zones {
		if zone.Subtype == zones.SubtypeWeaponCrate {
			crateZone = zone
			break
		}
	}
	if crateZone != nil {
		logger.Sugar.Info("setting up weapon crate zone")
		err := r.ars.LoadAdditionalData(filepath.Join(
			r.cfg.Paths.TemplateDir, "zone_specific", "weapon_crate.ars"))
		if err != nil {
			return err
		}
		r.ait.AddTextRecord("hwae_weapon_crate__sample_crate",
			"Sample the weapon crate")
		spare, ok := r.construction.FindWeaponNotInBuild()
		if !ok {
			logger.Sugar.Warn("every weapon is already buildable, crate gives none")
		} else {
			logger.Sugar.Infow("adding spare weapon", "weapon", spare)
			r.ars.AddActionToExistingRecord("HWAE_zone_specific weapon ready",
				"AIScript_MakeAvailableForBuilding",
				[]string{
					"AIS_SPECIFICPLAYER : 0",
					"AIS_UNITTYPE_SPECIFIC : " + spare,
				})
		}
		r.ail.AddAreaRecord("near_crate_zone", [4]int{
			crateZone.Z - 30, crateZone.X - 30,
			crateZone.Z + 30, crateZone.X + 30,
		})
		r.ait.AddTextRecord("hwae_weapon_crate__weapon_ready_in",
			fmt.Sprintf("New weapon (%s) ready in:", spare))
	}

	shells := r.gen.RandInt(1, 4)
	logger.Sugar.Infow("setting carrier shells", "shells", shells)
	r.ars.AddActionToExistingRecord("HWAE set carrier shells",
		"AIScript_SetCarrierShells",
		[]string{strconv.Itoa(shells)})
	return nil
}

// saveAll writes every level file. The text records go under Text/English
// next to the level directory, where the engine looks them up. Any stale
// compiled .aim scripts are removed so the engine rebuilds them.
func (r *run) saveAll() error {
	logger.Sugar.Info("saving level files")
	if err := r.lev.Save(r.levelDir, r.levelName); err != nil {
		return err
	}
	if err := r.levCfg.Save(r.levelDir, r.levelName); err != nil {
		return err
	}
	if err := r.ob3.Save(r.levelDir, r.levelName); err != nil {
		return err
	}
	if err := r.ars.Save(r.levelDir, r.levelName); err != nil {
		return err
	}
	if err := r.pat.Save(r.levelDir, r.levelName); err != nil {
		return err
	}
	if err := r.ail.Save(r.levelDir, r.levelName); err != nil {
		return err
	}

	textDir := filepath.Join(r.cfg.Paths.Output, "Text", "English")
	if err := os.MkdirAll(textDir, 0755); err != nil {
		return err
	}
	if err := r.ait.Save(textDir, r.levelName); err != nil {
		return err
	}

	stale, err := filepath.Glob(filepath.Join(r.levelDir, "*.aim"))
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
