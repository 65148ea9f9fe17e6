package objects

import (
	"math"
	"os"
	"testing"

	"github.com/hwae/hwae-go/internal/logger"
	"github.com/hwae/hwae-go/internal/mask"
	"github.com/hwae/hwae-go/internal/model"
	"github.com/hwae/hwae-go/internal/rng"
	"github.com/hwae/hwae-go/internal/terrain"
	"github.com/hwae/hwae-go/internal/zones"
	"github.com/hwae/hwae-go/pkg/formats"
)

func TestMain(m *testing.M) {
	logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}

// flatLandHandler builds a w x l handler whose terrain is all land at +100.
func flatLandHandler(w, l int, seed int64) *Handler {
	lev := formats.NewLev(w, l)
	for i := range lev.TerrainPoints {
		lev.TerrainPoints[i].Height = 100
	}
	gen := rng.New(seed)
	return NewHandler(terrain.New(lev, gen), formats.NewOb3(), gen, Options{})
}

// gridXZ recovers the grid coordinates of a placed object.
func gridXZ(o formats.Ob3Object) (int, int) {
	return int(math.Round(float64(o.Location[2]) / 10)), int(math.Round(float64(o.Location[0]) / 10))
}

func TestFindLocation_AllLand(t *testing.T) {
	h := flatLandHandler(64, 64, 1)
	pt, ok := h.FindLocation(SearchOptions{Surface: SurfaceLand, RequiredRadius: 2})
	if !ok {
		t.Fatal("all-land map must yield a location")
	}
	if pt.X < 0 || pt.X >= 64 || pt.Z < 0 || pt.Z >= 64 {
		t.Errorf("location %v out of bounds", pt)
	}

	if _, ok := h.FindLocation(SearchOptions{Surface: SurfaceWater, RequiredRadius: 1}); ok {
		t.Error("all-land map has no water cells")
	}
}

func TestFindLocation_ErodesMargin(t *testing.T) {
	h := flatLandHandler(64, 64, 9)
	island := mask.New(64, 64)
	island.StampDisc(32, 32, 10, 1)

	for i := 0; i < 50; i++ {
		pt, ok := h.FindLocation(SearchOptions{
			Surface:        SurfaceLand,
			RequiredRadius: 8,
			ExtraMask:      island,
		})
		if !ok {
			t.Fatal("search failed inside a radius-10 region")
		}
		dist := math.Hypot(float64(pt.X-32), float64(pt.Z-32))
		// erosion by radius/2 = 4 keeps centres away from the region edge
		if dist > 7 {
			t.Fatalf("centre %v too close to region edge (dist %.1f)", pt, dist)
		}
	}
}

func TestFindLocation_NoSideEffects(t *testing.T) {
	h := flatLandHandler(32, 32, 2)
	before := h.ObjectMask().Count()
	h.FindLocation(SearchOptions{Surface: SurfaceLand, RequiredRadius: 3})
	if h.ObjectMask().Count() != before {
		t.Error("FindLocation must not stamp occupancy")
	}
}

func TestAddObjectOnLandRandom_StampsOccupancy(t *testing.T) {
	h := flatLandHandler(64, 64, 5)
	total := 64 * 64

	id, ok := h.AddObjectOnLandRandom("Tankwreck", ObjectPlacement{
		Team:           model.TeamNeutral,
		RequiredRadius: 2,
	})
	if !ok {
		t.Fatal("placement on an empty land map must succeed")
	}
	if id != 1 {
		t.Errorf("first object id = %d, want 1", id)
	}

	x, z := gridXZ(h.ob3.Objects[0])
	m := h.ObjectMask()
	if m.At(x, z) != 0 {
		t.Error("placed cell still marked free")
	}
	// exactly one radius-2 disc excluded, nothing else
	expect := mask.NewFilled(64, 64, 1)
	expect.StampDisc(x, z, 2, 0)
	if m.Count() != expect.Count() {
		t.Errorf("excluded %d cells, want %d", total-m.Count(), total-expect.Count())
	}
}

func TestOccupancyMonotonicity(t *testing.T) {
	h := flatLandHandler(128, 128, 7)
	expect := mask.NewFilled(128, 128, 1)
	for i := 0; i < 10; i++ {
		_, ok := h.AddObjectOnLandRandom("crate_green", ObjectPlacement{
			Team:           model.TeamNeutral,
			RequiredRadius: 1,
		})
		if !ok {
			t.Fatalf("placement %d failed unexpectedly", i)
		}
		x, z := gridXZ(h.ob3.Objects[len(h.ob3.Objects)-1])
		expect.StampDisc(x, z, 1, 0)
		if h.ObjectMask().Count() != expect.Count() {
			t.Fatalf("after %d placements mask excludes %d cells, want %d",
				i+1, 128*128-h.ObjectMask().Count(), 128*128-expect.Count())
		}
	}
}

func TestAddZone_DegradeThenFail(t *testing.T) {
	h := flatLandHandler(128, 128, 3)

	// only a small pocket is available
	pocket := mask.New(128, 128)
	pocket.StampDisc(64, 64, 18, 1)
	marker, ok := h.AddZone(zones.Request{
		Type:      zones.TypeBase,
		Size:      zones.SizeXLarge,
		Subtype:   zones.SubtypeGenericBase,
		TeamIndex: 1,
		ExtraMask: pocket,
	})
	if !ok {
		t.Fatal("zone should degrade into the pocket, not fail")
	}
	if marker.Size == zones.SizeXLarge {
		t.Error("xlarge zone cannot fit a radius-18 pocket, size should have degraded")
	}

	// nowhere at all
	empty := mask.New(128, 128)
	if _, ok := h.AddZone(zones.Request{
		Type:      zones.TypeScrap,
		Size:      zones.SizeSmall,
		Subtype:   zones.SubtypeOldTankBattle,
		TeamIndex: zones.NoTeam,
		ExtraMask: empty,
	}); ok {
		t.Error("zone placed with an all-zero mask")
	}
}

func TestAddZone_SeparationInvariant(t *testing.T) {
	h := flatLandHandler(256, 256, 42)
	for i := 0; i < 5; i++ {
		h.AddZone(zones.Request{
			Type:      zones.TypeBase,
			Size:      zones.SizeMedium,
			Subtype:   zones.SubtypeGenericBase,
			TeamIndex: i + 1,
		})
	}
	if len(h.Zones) < 2 {
		t.Fatalf("expected several zones on an empty 256x256 map, got %d", len(h.Zones))
	}
	for i := 0; i < len(h.Zones); i++ {
		for j := i + 1; j < len(h.Zones); j++ {
			a, b := h.Zones[i], h.Zones[j]
			dist := math.Hypot(float64(a.X-b.X), float64(a.Z-b.Z))
			min := float64(a.Radius() + b.Radius() + 10)
			if dist < min {
				t.Errorf("zones %d and %d are %.1f apart, want at least %.1f", i, j, dist, min)
			}
		}
	}
}

func TestAddZone_ExampleScenario(t *testing.T) {
	h := flatLandHandler(64, 64, 42)
	marker, ok := h.AddZone(zones.Request{
		Type:      zones.TypeBase,
		Size:      zones.SizeLarge,
		Subtype:   zones.SubtypeGenericBase,
		TeamIndex: 1,
	})
	if !ok {
		t.Fatal("large zone must fit an empty 64x64 land map")
	}
	if marker.Radius() != zones.RadiusForSize(zones.SizeLarge) {
		t.Errorf("marker radius = %d, want %d", marker.Radius(), zones.RadiusForSize(zones.SizeLarge))
	}
	if marker.X < 0 || marker.X >= 64 || marker.Z < 0 || marker.Z >= 64 {
		t.Errorf("marker centre (%d,%d) out of bounds", marker.X, marker.Z)
	}

	second, ok := h.AddZone(zones.Request{
		Type:      zones.TypeBase,
		Size:      zones.SizeLarge,
		Subtype:   zones.SubtypeGenericBase,
		TeamIndex: 2,
	})
	if ok {
		dist := math.Hypot(float64(second.X-marker.X), float64(second.Z-marker.Z))
		if dist < float64(marker.Radius()+second.Radius()+10) {
			t.Errorf("second zone only %.1f from the first", dist)
		}
	}
}

func TestDeterminism_FullPlacementSequence(t *testing.T) {
	run := func() *Handler {
		h := flatLandHandler(128, 128, 77)
		h.AddCarrierAndReturnMask()
		h.AddZone(zones.Request{Type: zones.TypeBase, Size: zones.SizeMedium,
			Subtype: zones.SubtypeGenericBase, TeamIndex: 1})
		for _, z := range h.Zones {
			h.PopulateZone(z)
		}
		return h
	}
	a, b := run(), run()
	if len(a.ob3.Objects) != len(b.ob3.Objects) {
		t.Fatalf("object counts differ: %d vs %d", len(a.ob3.Objects), len(b.ob3.Objects))
	}
	for i := range a.ob3.Objects {
		oa, ob := a.ob3.Objects[i], b.ob3.Objects[i]
		if oa.ObjectType != ob.ObjectType || oa.Location != ob.Location || oa.TeamNumber != ob.TeamNumber {
			t.Fatalf("object %d differs between identical runs", i)
		}
	}
}

func TestTemplateAnchorAtomicity(t *testing.T) {
	h := flatLandHandler(64, 64, 1)
	tpl := model.ObjectTemplate{
		{ObjectType: "Alienspybase", Team: model.TeamEnemy, RequiredRadius: 2},
		{ObjectType: "Alienackackgun", Team: model.TeamEnemy, RequiredRadius: 2, TemplateXOffset: 1},
	}
	empty := mask.New(64, 64)
	if h.AddObjectTemplateOnLandRandom(tpl, TemplateOptions{
		TeamOverride: zones.NoTeam,
		ExtraMask:    empty,
	}) {
		t.Fatal("template reported success with no anchor location")
	}
	if len(h.ob3.Objects) != 0 {
		t.Errorf("anchor failed but %d members were placed", len(h.ob3.Objects))
	}
}

func TestTemplatePlacement_MembersAtOffsets(t *testing.T) {
	h := flatLandHandler(64, 64, 6)
	tpl := model.ObjectTemplate{
		{ObjectType: "alienpowerstore", Team: model.TeamEnemy, RequiredRadius: 3},
		{ObjectType: "alienpowerstore", Team: model.TeamEnemy, RequiredRadius: 3, TemplateXOffset: 2},
	}
	if !h.AddObjectTemplateOnLandRandom(tpl, TemplateOptions{TeamOverride: zones.NoTeam}) {
		t.Fatal("template placement failed on an empty map")
	}
	if len(h.ob3.Objects) != 2 {
		t.Fatalf("placed %d objects, want 2", len(h.ob3.Objects))
	}
	ax, _ := gridXZ(h.ob3.Objects[0])
	mx, _ := gridXZ(h.ob3.Objects[1])
	if mx-ax != 2 {
		t.Errorf("member x offset = %d, want 2", mx-ax)
	}
}

func TestPopulateZone_WeaponCrate(t *testing.T) {
	h := flatLandHandler(128, 128, 12)
	marker, ok := h.AddZone(zones.Request{
		Type:      zones.TypeScrap,
		Size:      zones.SizeMedium,
		Subtype:   zones.SubtypeWeaponCrate,
		TeamIndex: zones.NoTeam,
	})
	if !ok {
		t.Fatal("zone placement failed")
	}
	h.PopulateZone(marker)

	crates := 0
	for _, o := range h.ob3.Objects {
		if o.ObjectType == "recharge_crate" {
			crates++
		}
		x, z := gridXZ(o)
		dist := math.Hypot(float64(x-marker.X), float64(z-marker.Z))
		if dist > float64(marker.Radius())+1 {
			t.Errorf("object %s at %.1f cells from centre, outside the zone", o.ObjectType, dist)
		}
	}
	if crates < 3 {
		t.Errorf("weapon crate zone placed %d crates, priority tier requires 3", crates)
	}
	if len(h.ob3.Objects) > marker.NumObjects() {
		t.Errorf("placed %d objects, budget is %d", len(h.ob3.Objects), marker.NumObjects())
	}
}

func TestPopulateZone_TeamOverride(t *testing.T) {
	h := flatLandHandler(128, 128, 21)
	marker, ok := h.AddZone(zones.Request{
		Type:      zones.TypeBase,
		Size:      zones.SizeSmall,
		Subtype:   zones.SubtypePumpOutpost,
		TeamIndex: 3,
	})
	if !ok {
		t.Fatal("zone placement failed")
	}
	h.PopulateZone(marker)
	if len(h.ob3.Objects) == 0 {
		t.Fatal("pump outpost zone placed nothing")
	}
	for _, o := range h.ob3.Objects {
		if o.TeamNumber != 3 {
			t.Errorf("object %s on team %d, zone team is 3", o.ObjectType, o.TeamNumber)
		}
	}
}

func TestAddCarrier(t *testing.T) {
	lev := formats.NewLev(64, 64)
	// left half land, right half water
	for x := 0; x < 64; x++ {
		for z := 0; z < 64; z++ {
			h := float32(100)
			if z >= 32 {
				h = -100
			}
			lev.TerrainPoints[x*64+z].Height = h
		}
	}
	gen := rng.New(10)
	h := NewHandler(terrain.New(lev, gen), formats.NewOb3(), gen, Options{})

	carrierMask := h.AddCarrierAndReturnMask()
	if len(h.ob3.Objects) != 1 {
		t.Fatal("carrier not added")
	}
	carrier := h.ob3.Objects[0]
	if carrier.ID != 1 {
		t.Errorf("carrier id = %d, scripts require 1", carrier.ID)
	}
	if carrier.ObjectType != "Carrier" || carrier.TeamNumber != 0 {
		t.Error("carrier must be a player-team Carrier")
	}
	x, z := gridXZ(carrier)
	if h.terrain.Height(x, z) > 0 {
		t.Error("carrier placed on land although water is available")
	}
	if !carrierMask.Any() {
		t.Error("carrier inclusion mask is empty")
	}
	if carrierMask.At(x, z) != 1 {
		t.Error("inclusion mask must cover the carrier position")
	}
}

func TestRallyPointNear(t *testing.T) {
	h := flatLandHandler(128, 128, 4)
	marker, ok := h.AddZone(zones.Request{
		Type: zones.TypeScrap, Size: zones.SizeTiny,
		Subtype: zones.SubtypeOldTankBattle, TeamIndex: zones.NoTeam,
	})
	if !ok {
		t.Fatal("zone placement failed")
	}
	x, z, ok := h.RallyPointNear(marker, 5)
	if !ok {
		t.Fatal("no rally point found next to the zone")
	}
	dist := math.Hypot(float64(x-marker.X), float64(z-marker.Z))
	if dist > float64(marker.Radius()+5) {
		t.Errorf("rally point %.1f cells away, want within %d", dist, marker.Radius()+5)
	}
}

func TestCreatePatrolPointsHull(t *testing.T) {
	h := flatLandHandler(64, 64, 30)
	route := h.CreatePatrolPointsHull(7)
	if len(route) < 3 {
		t.Fatalf("hull has %d points, want at least 3", len(route))
	}
	for _, p := range route {
		if p.X < 0 || p.X >= 64 || p.Z < 0 || p.Z >= 64 {
			t.Errorf("patrol point %+v out of bounds", p)
		}
	}
}

func TestConvexHull(t *testing.T) {
	pts := []mask.Point{
		{X: 0, Z: 0}, {X: 4, Z: 0}, {X: 4, Z: 4},
		{X: 0, Z: 4}, {X: 2, Z: 2}, {X: 1, Z: 3},
	}
	hull := convexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull of a square plus interior points has 4 vertices, got %d", len(hull))
	}
	for _, p := range hull {
		if p == (mask.Point{X: 2, Z: 2}) || p == (mask.Point{X: 1, Z: 3}) {
			t.Error("interior point on hull")
		}
	}
}

func TestAddAlienMisc_AvoidsCarrierArea(t *testing.T) {
	h := flatLandHandler(128, 128, 15)
	h.AddAlienMisc(64, 64)
	if len(h.ob3.Objects) == 0 {
		t.Fatal("no misc objects placed")
	}
	for _, o := range h.ob3.Objects {
		x, z := gridXZ(o)
		dist := math.Hypot(float64(x-64), float64(z-64))
		// template members may poke out slightly, centres are kept clear
		if dist < 25 {
			t.Errorf("misc object %s within carrier clearance (%.1f)", o.ObjectType, dist)
		}
	}
}
