// Package objects implements the placement engine: mask-composed location
// search, object and template placement, zone placement with size
// degradation, and zone population from tiered pools.
package objects

import (
	"math"
	"sort"

	"github.com/hwae/hwae-go/internal/logger"
	"github.com/hwae/hwae-go/internal/mask"
	"github.com/hwae/hwae-go/internal/model"
	"github.com/hwae/hwae-go/internal/rng"
	"github.com/hwae/hwae-go/internal/terrain"
	"github.com/hwae/hwae-go/internal/zones"
	"github.com/hwae/hwae-go/pkg/formats"
)

// Surface selects which part of the map a search runs on.
type Surface int

const (
	SurfaceLand Surface = iota
	SurfaceWater
	SurfaceCoast
)

// Options tunes the handler's spatial constants. Zero value gives defaults.
type Options struct {
	// WaterCutoff is the height separating land from water.
	WaterCutoff float64
	// CoastRadiusFrac sizes the coast band as a fraction of map width.
	CoastRadiusFrac float64
	// ZoneSeparationMargin is the extra clearance stamped around zones.
	ZoneSeparationMargin int
}

func (o *Options) applyDefaults() {
	if o.CoastRadiusFrac == 0 {
		o.CoastRadiusFrac = 0.1
	}
	if o.ZoneSeparationMargin == 0 {
		o.ZoneSeparationMargin = 10
	}
}

const (
	carrierRadius        = 8
	carrierClearRadius   = 10
	carrierInclusionRing = 25
	miscCarrierClearance = 30
)

// Handler owns the occupancy state of one generation run. The object mask
// starts all-free and only ever loses cells; it is never reset mid-run.
type Handler struct {
	terrain *terrain.Terrain
	ob3     *formats.Ob3
	gen     *rng.Generator
	opts    Options

	// Zones is the append-only list of placed zones.
	Zones []*zones.Marker

	objectMask  *mask.Grid // 1 = free of objects
	zoneMask    *mask.Grid // 1 = outside every zone disc
	zoneSepMask *mask.Grid // 1 = outside every zone separation buffer
}

// NewHandler creates a Handler for a fresh run.
func NewHandler(t *terrain.Terrain, ob3 *formats.Ob3, gen *rng.Generator, opts Options) *Handler {
	opts.applyDefaults()
	return &Handler{
		terrain:     t,
		ob3:         ob3,
		gen:         gen,
		opts:        opts,
		objectMask:  mask.NewFilled(t.Width, t.Length, 1),
		zoneMask:    mask.NewFilled(t.Width, t.Length, 1),
		zoneSepMask: mask.NewFilled(t.Width, t.Length, 1),
	}
}

// Dims implements zones.Placer.
func (h *Handler) Dims() (int, int) { return h.terrain.Width, h.terrain.Length }

// ObjectMask exposes a copy of the cached object occupancy grid.
func (h *Handler) ObjectMask() *mask.Grid { return h.objectMask.Clone() }

func (h *Handler) surfaceMask(s Surface) *mask.Grid {
	switch s {
	case SurfaceWater:
		return h.terrain.WaterMask(h.opts.WaterCutoff)
	case SurfaceCoast:
		radius := int(float64(h.terrain.Width) * h.opts.CoastRadiusFrac)
		return h.terrain.CoastMask(h.opts.WaterCutoff, radius)
	default:
		return h.terrain.LandMask(h.opts.WaterCutoff)
	}
}

// SearchOptions selects the masks composed into one location search.
type SearchOptions struct {
	Surface             Surface
	RequiredRadius      float64
	AvoidObjects        bool
	AvoidZones          bool
	AvoidZoneSeparation bool
	InZone              *zones.Marker
	ExtraMask           *mask.Grid
}

// FindLocation searches for a free cell satisfying the composed constraints.
// The candidate mask is intersected in a fixed order (zone of interest,
// surface, objects, zones, zone separation, extra), then eroded by stamping
// zero-discs at its transition cells so the chosen centre keeps a margin
// from every excluded area. A uniformly random surviving cell is returned.
//
// No side effects: callers stamp occupancy themselves after accepting the
// location, since downstream height checks may still reject it. An empty
// result is a normal outcome, not an error.
func (h *Handler) FindLocation(o SearchOptions) (mask.Point, bool) {
	w, l := h.terrain.Width, h.terrain.Length
	cand := mask.NewFilled(w, l, 1)
	if o.InZone != nil {
		cand.Intersect(o.InZone.Mask(w, l))
	}
	cand.Intersect(h.surfaceMask(o.Surface))
	if o.AvoidObjects {
		cand.Intersect(h.objectMask)
	}
	if o.AvoidZones {
		cand.Intersect(h.zoneMask)
	}
	if o.AvoidZoneSeparation {
		cand.Intersect(h.zoneSepMask)
	}
	if o.ExtraMask != nil {
		cand.Intersect(o.ExtraMask)
	}

	radius := int(math.Round(o.RequiredRadius))
	if radius < 1 {
		radius = 1
	}
	for _, p := range cand.Transition().Cells() {
		cand.StampDisc(p.X, p.Z, radius/2, 0)
	}

	cells := cand.Cells()
	if len(cells) == 0 {
		return mask.Point{}, false
	}
	return rng.SelectRandom(h.gen, cells), true
}

// ObjectPlacement carries the optional parameters of a single placement.
type ObjectPlacement struct {
	Attachment     string
	Team           model.Team
	RequiredRadius float64
	YRotation      float64
	YOffset        float64
	InZone         *zones.Marker
	ExtraMask      *mask.Grid
}

// AddObjectOnLandRandom places one object on a random free land cell and
// returns its object list ID. Placements inside a zone are confined to the
// zone's disc; placements outside avoid all zones. Returns false when no
// location exists or the spot fails the water check.
func (h *Handler) AddObjectOnLandRandom(objectType string, p ObjectPlacement) (uint32, bool) {
	pt, ok := h.FindLocation(SearchOptions{
		Surface:             SurfaceLand,
		RequiredRadius:      p.RequiredRadius,
		AvoidObjects:        true,
		AvoidZones:          p.InZone == nil,
		AvoidZoneSeparation: false,
		InZone:              p.InZone,
		ExtraMask:           p.ExtraMask,
	})
	if !ok {
		logger.Sugar.Debugw("no location for object", "type", objectType)
		return 0, false
	}
	ground := h.terrain.Height(pt.X, pt.Z)
	if ground+p.YOffset < h.opts.WaterCutoff {
		logger.Sugar.Debugw("object rejected by water check", "type", objectType)
		return 0, false
	}

	id := h.ob3.AddObject(objectType,
		[3]float32{float32(pt.X), float32(ground + p.YOffset), float32(pt.Z)},
		p.Attachment, uint32(p.Team), p.YRotation)

	radius := int(math.Round(p.RequiredRadius))
	if radius < 1 {
		radius = 1
	}
	h.objectMask.StampDisc(pt.X, pt.Z, radius, 0)
	return id, true
}

// TemplateOptions carries the optional parameters of a template placement.
type TemplateOptions struct {
	InZone *zones.Marker
	// TeamOverride replaces every member's team; zones.NoTeam keeps them.
	TeamOverride int
	ExtraMask    *mask.Grid
}

// AddObjectTemplateOnLandRandom places a fixed-offset cluster. The anchor is
// searched like a single object; if it cannot be placed (or fails the water
// check) no member is placed at all. Members are then positioned at their
// fixed offsets and skipped individually when they land out of bounds or
// underwater; partial templates are accepted, never rolled back.
func (h *Handler) AddObjectTemplateOnLandRandom(t model.ObjectTemplate, opts TemplateOptions) bool {
	if len(t) == 0 {
		return false
	}
	anchor := t[0]
	pt, ok := h.FindLocation(SearchOptions{
		Surface:        SurfaceLand,
		RequiredRadius: anchor.RequiredRadius,
		AvoidObjects:   true,
		AvoidZones:     opts.InZone == nil,
		InZone:         opts.InZone,
		ExtraMask:      opts.ExtraMask,
	})
	if !ok {
		logger.Sugar.Debugw("no location for template anchor", "type", anchor.ObjectType)
		return false
	}
	ground := h.terrain.Height(pt.X, pt.Z)
	if ground+anchor.YOffset < h.opts.WaterCutoff {
		return false
	}

	for i, member := range t {
		x := float64(pt.X) + member.TemplateXOffset
		z := float64(pt.Z) + member.TemplateZOffset
		gx, gz := int(math.Round(x)), int(math.Round(z))
		if i > 0 {
			if !h.terrain.InBounds(gx, gz) {
				continue
			}
			if ground+member.TemplateYOffset+member.YOffset < h.opts.WaterCutoff {
				continue
			}
		}
		team := member.Team
		if opts.TeamOverride != zones.NoTeam {
			team = model.Team(opts.TeamOverride)
		}
		h.ob3.AddObject(member.ObjectType,
			[3]float32{float32(x), float32(ground + member.TemplateYOffset + member.YOffset), float32(z)},
			member.AttachmentType, uint32(team), member.YRotation)

		radius := int(math.Round(member.RequiredRadius))
		if radius < 1 {
			radius = 1
		}
		h.objectMask.StampDisc(gx, gz, radius, 0)
	}
	return true
}

// AddCarrierAndReturnMask places the player's carrier, preferring coast
// water, then open water, then land as a last resort. The carrier must be
// the first object added: gameplay scripts require it to hold ID 1. Returns
// an inclusion disc around the carrier for follow-up placements.
func (h *Handler) AddCarrierAndReturnMask() *mask.Grid {
	if len(h.ob3.Objects) != 0 {
		logger.Sugar.Warn("carrier is not the first object, scripts expect ID 1")
	}
	var pt mask.Point
	found := false
	for _, surface := range []Surface{SurfaceCoast, SurfaceWater, SurfaceLand} {
		p, ok := h.FindLocation(SearchOptions{
			Surface:        surface,
			RequiredRadius: carrierRadius,
			AvoidObjects:   true,
		})
		if ok {
			pt, found = p, true
			break
		}
	}
	if !found {
		// degenerate map, drop the carrier mid-grid
		pt = mask.Point{X: h.terrain.Width / 2, Z: h.terrain.Length / 2}
	}

	// carriers float at sea level
	h.ob3.AddObject("Carrier", [3]float32{float32(pt.X), 0, float32(pt.Z)}, "",
		uint32(model.TeamPlayer), float64(h.gen.RandInt(0, 360)))
	h.objectMask.StampDisc(pt.X, pt.Z, carrierClearRadius, 0)

	inclusion := mask.New(h.terrain.Width, h.terrain.Length)
	inclusion.StampDisc(pt.X, pt.Z, carrierInclusionRing, 1)
	logger.Sugar.Infow("carrier placed", "x", pt.X, "z", pt.Z)
	return inclusion
}

// AddObjectCenteredOnZone drops an object exactly on a zone's centre with no
// search. Used for markers like the map revealer.
func (h *Handler) AddObjectCenteredOnZone(objectType string, m *zones.Marker) uint32 {
	y := math.Max(h.terrain.Height(m.X, m.Z), 0)
	return h.ob3.AddObject(objectType,
		[3]float32{float32(m.X), float32(y), float32(m.Z)}, "",
		uint32(model.TeamNeutral), 0)
}

// AddZone implements zones.Placer: it places a zone of the requested size,
// degrading one size at a time down to tiny when space is short. The search
// demands clearance of the full zone diameter so placed zones honour the
// separation invariant. Returns false only when even a tiny zone fits
// nowhere; callers continue with fewer zones rather than aborting.
func (h *Handler) AddZone(req zones.Request) (*zones.Marker, bool) {
	for size := req.Size; size >= zones.SizeTiny; size-- {
		radius := zones.RadiusForSize(size)
		pt, ok := h.FindLocation(SearchOptions{
			Surface: SurfaceLand,
			// 2*radius erodes by the full radius, keeping the whole
			// disc clear of other zones and their buffers
			RequiredRadius:      float64(2 * radius),
			AvoidObjects:        true,
			AvoidZones:          true,
			AvoidZoneSeparation: true,
			ExtraMask:           req.ExtraMask,
		})
		if !ok {
			if size > zones.SizeTiny {
				logger.Sugar.Debugw("zone does not fit, degrading",
					"subtype", req.Subtype.String(), "from", size.String())
			}
			continue
		}
		marker := &zones.Marker{
			X:         pt.X,
			Z:         pt.Z,
			Type:      req.Type,
			Size:      size,
			Subtype:   req.Subtype,
			TeamIndex: req.TeamIndex,
			Satellite: req.Satellite,
		}
		h.Zones = append(h.Zones, marker)
		h.zoneMask.StampDisc(pt.X, pt.Z, radius, 0)
		h.zoneSepMask.StampDisc(pt.X, pt.Z, radius+h.opts.ZoneSeparationMargin, 0)
		logger.Sugar.Infow("zone placed", "zone", marker.String())
		return marker, true
	}
	return nil, false
}

// RallyPointNear implements zones.Placer: it finds a free land cell within
// radius of the zone's edge.
func (h *Handler) RallyPointNear(m *zones.Marker, radius int) (int, int, bool) {
	ring := mask.New(h.terrain.Width, h.terrain.Length)
	ring.StampDisc(m.X, m.Z, m.Radius()+radius, 1)
	pt, ok := h.FindLocation(SearchOptions{
		Surface:        SurfaceLand,
		RequiredRadius: 1,
		AvoidObjects:   true,
		ExtraMask:      ring,
	})
	if !ok {
		return 0, 0, false
	}
	return pt.X, pt.Z, true
}

// PopulateZone fills a placed zone from its subtype's tiered pools: the
// priority tiers draw their fixed counts first, the fill tier covers the
// rest of the size budget. All draws are merged and placed largest radius
// first inside the zone's disc. Failed placements are skipped.
func (h *Handler) PopulateZone(m *zones.Marker) {
	pools := zones.PoolsFor(m)

	var draws []model.Placeable
	if len(pools.Priority1) > 0 {
		for i := 0; i < pools.P1Count; i++ {
			draws = append(draws, rng.Sample(h.gen, pools.Priority1))
		}
	}
	if len(pools.Priority2) > 0 {
		for i := 0; i < pools.P2Count; i++ {
			draws = append(draws, rng.Sample(h.gen, pools.Priority2))
		}
	}
	fillCount := m.NumObjects() - pools.P1Count - pools.P2Count
	if len(pools.Fill) > 0 {
		for i := 0; i < fillCount; i++ {
			draws = append(draws, rng.Sample(h.gen, pools.Fill))
		}
	}
	sort.SliceStable(draws, func(i, j int) bool {
		return draws[i].AnchorRadius() > draws[j].AnchorRadius()
	})

	placed := 0
	for _, d := range draws {
		switch obj := d.(type) {
		case model.ObjectTemplate:
			if h.AddObjectTemplateOnLandRandom(obj, TemplateOptions{
				InZone:       m,
				TeamOverride: m.TeamIndex,
			}) {
				placed++
			}
		case model.ObjectContainer:
			team := obj.Team
			if m.TeamIndex != zones.NoTeam {
				team = model.Team(m.TeamIndex)
			}
			if _, ok := h.AddObjectOnLandRandom(obj.ObjectType, ObjectPlacement{
				Attachment:     obj.AttachmentType,
				Team:           team,
				RequiredRadius: obj.RequiredRadius,
				YRotation:      float64(h.gen.RandInt(0, 360)),
				YOffset:        obj.YOffset,
				InZone:         m,
			}); ok {
				placed++
			}
		}
	}
	logger.Sugar.Infow("zone populated", "zone", m.String(),
		"placed", placed, "drawn", len(draws))
}

// AddAlienMisc scatters a few alien AA and radar posts on land outside the
// zones, away from the carrier's surroundings.
func (h *Handler) AddAlienMisc(carrierX, carrierZ int) {
	keepOut := mask.NewFilled(h.terrain.Width, h.terrain.Length, 1)
	keepOut.StampDisc(carrierX, carrierZ, miscCarrierClearance, 0)

	count := h.gen.RandInt(2, 6)
	for i := 0; i < count; i++ {
		tpl := rng.SelectRandom(h.gen, zones.MiscAlienTemplates)
		h.AddObjectTemplateOnLandRandom(tpl, TemplateOptions{
			TeamOverride: zones.NoTeam,
			ExtraMask:    keepOut,
		})
	}
}

// CreatePatrolPointsHull picks n random land cells and returns their convex
// hull as a patrol route for flying units.
func (h *Handler) CreatePatrolPointsHull(n int) []formats.PatrolPoint {
	var pts []mask.Point
	for i := 0; i < n; i++ {
		p, ok := h.FindLocation(SearchOptions{
			Surface:        SurfaceLand,
			RequiredRadius: 1,
		})
		if !ok {
			continue
		}
		pts = append(pts, p)
	}
	hull := convexHull(pts)
	route := make([]formats.PatrolPoint, 0, len(hull))
	for _, p := range hull {
		y := math.Max(h.terrain.Height(p.X, p.Z), 0) / formats.MapScaler
		route = append(route, formats.PatrolPoint{X: float64(p.X), Y: y, Z: float64(p.Z)})
	}
	return route
}

// convexHull computes the hull of pts with the monotone chain algorithm.
// Fewer than three points come back unchanged.
func convexHull(pts []mask.Point) []mask.Point {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([]mask.Point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Z < sorted[j].Z
	})

	cross := func(o, a, b mask.Point) int {
		return (a.X-o.X)*(b.Z-o.Z) - (a.Z-o.Z)*(b.X-o.X)
	}

	var lower []mask.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []mask.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
