package zones

import (
	"sort"

	"github.com/hwae/hwae-go/internal/logger"
	"github.com/hwae/hwae-go/internal/mask"
	"github.com/hwae/hwae-go/internal/rng"
)

// Satellites cluster within this radius of their parent base.
const satelliteRingRadius = 40

// Request asks the Placer for one zone. ExtraMask, when set, restricts the
// search to its set cells.
type Request struct {
	Type      Type
	Size      Size
	Subtype   Subtype
	TeamIndex int
	Satellite bool
	ExtraMask *mask.Grid
}

// Placer performs grid searches and owns the placed zone list. Implemented
// by the object handler.
type Placer interface {
	// AddZone places a zone, degrading its size when space is short.
	// Returns false when even the smallest size fits nowhere.
	AddZone(req Request) (*Marker, bool)
	// RallyPointNear finds a free land cell within radius of the zone edge.
	RallyPointNear(m *Marker, radius int) (x, z int, ok bool)
	// Dims returns the grid dimensions.
	Dims() (width, length int)
}

// subtype sampling weights and per-run quotas. Quotas are an exhaustible
// resource: a subtype drops out of the draw once its quota is spent.
type subtypeQuota struct {
	subtype   Subtype
	zoneType  Type
	weight    int
	remaining int
}

func defaultQuotas() []subtypeQuota {
	return []subtypeQuota{
		{subtype: SubtypeGenericBase, zoneType: TypeBase, weight: 3, remaining: 8},
		{subtype: SubtypeDestroyedBase, zoneType: TypeScrap, weight: 3, remaining: 2},
		{subtype: SubtypeOldTankBattle, zoneType: TypeScrap, weight: 3, remaining: 2},
		{subtype: SubtypeFuelTanks, zoneType: TypeScrap, weight: 3, remaining: 2},
		{subtype: SubtypeWeaponCrate, zoneType: TypeScrap, weight: 1, remaining: 1},
	}
}

// allowed sizes per subtype; weights favour smaller zones.
var (
	sizeWeights = map[Size]int{
		SizeTiny:   4,
		SizeSmall:  4,
		SizeMedium: 3,
		SizeLarge:  2,
		SizeXLarge: 1,
	}
	allowedSizes = map[Subtype][]Size{
		SubtypeGenericBase:   {SizeSmall, SizeMedium, SizeLarge, SizeXLarge},
		SubtypePumpOutpost:   {SizeTiny, SizeSmall},
		SubtypeDestroyedBase: {SizeSmall, SizeMedium},
		SubtypeOldTankBattle: {SizeSmall, SizeMedium},
		SubtypeFuelTanks:     {SizeSmall, SizeMedium},
		SubtypeWeaponCrate:   {SizeSmall, SizeMedium},
	}
	// satellite outposts per base size, indexed by Size
	satelliteCount = [...]int{0, 1, 1, 2, 2}
)

// Manager decides which zones to create and orchestrates satellites. Quota
// state is per-instance so runs cannot interfere with each other.
type Manager struct {
	placer   Placer
	gen      *rng.Generator
	quotas   []subtypeQuota
	nextTeam int
}

// NewManager returns a Manager drawing randomness from gen.
func NewManager(placer Placer, gen *rng.Generator) *Manager {
	return &Manager{
		placer:   placer,
		gen:      gen,
		quotas:   defaultQuotas(),
		nextTeam: 1, // team 0 is the player
	}
}

// sampleSubtype draws a subtype of the given zone type from those with
// remaining quota, then decrements it. Returns false when all are spent.
func (m *Manager) sampleSubtype(zoneType Type) (Subtype, bool) {
	var pool []rng.Weighted[int]
	for i := range m.quotas {
		q := &m.quotas[i]
		if q.zoneType == zoneType && q.remaining > 0 {
			pool = append(pool, rng.Weighted[int]{Item: i, Weight: q.weight})
		}
	}
	if len(pool) == 0 {
		return 0, false
	}
	idx := rng.Sample(m.gen, pool)
	m.quotas[idx].remaining--
	return m.quotas[idx].subtype, true
}

// sampleSize draws a size from the subtype's allowed table.
func (m *Manager) sampleSize(subtype Subtype) Size {
	var pool []rng.Weighted[Size]
	for _, s := range allowedSizes[subtype] {
		pool = append(pool, rng.Weighted[Size]{Item: s, Weight: sizeWeights[s]})
	}
	return rng.Sample(m.gen, pool)
}

// GenerateRandomZones creates up to n zones of the given type, plus linked
// pump outpost satellites for base zones. The whole batch is placed largest
// first so big zones are not squeezed out by fragmentation; satellites go
// last, constrained to a ring around their parent. Zones that fit nowhere
// are skipped, not fatal.
func (m *Manager) GenerateRandomZones(n int, zoneType Type) []*Marker {
	var batch []Request
	for i := 0; i < n; i++ {
		subtype, ok := m.sampleSubtype(zoneType)
		if !ok {
			logger.Sugar.Infow("zone quotas exhausted", "type", zoneType.String())
			break
		}
		req := Request{
			Type:      zoneType,
			Size:      m.sampleSize(subtype),
			Subtype:   subtype,
			TeamIndex: NoTeam,
		}
		if zoneType == TypeBase {
			req.TeamIndex = m.nextTeam
			m.nextTeam++
			for s := 0; s < satelliteCount[req.Size]; s++ {
				batch = append(batch, Request{
					Type:      TypeBase,
					Size:      m.sampleSize(SubtypePumpOutpost),
					Subtype:   SubtypePumpOutpost,
					TeamIndex: req.TeamIndex,
					Satellite: true,
				})
			}
		}
		batch = append(batch, req)
	}

	sort.SliceStable(batch, func(i, j int) bool {
		return RadiusForSize(batch[i].Size) > RadiusForSize(batch[j].Size)
	})

	width, length := m.placer.Dims()
	var placed []*Marker
	parents := map[int]*Marker{}

	for _, req := range batch {
		if req.Satellite {
			continue
		}
		marker, ok := m.placer.AddZone(req)
		if !ok {
			logger.Sugar.Warnw("no space for zone, skipping",
				"subtype", req.Subtype.String(), "size", req.Size.String())
			continue
		}
		placed = append(placed, marker)
		if req.TeamIndex != NoTeam {
			parents[req.TeamIndex] = marker
		}
	}

	for _, req := range batch {
		if !req.Satellite {
			continue
		}
		parent, ok := parents[req.TeamIndex]
		if !ok {
			// parent base was never placed
			continue
		}
		ring := mask.New(width, length)
		ring.StampDisc(parent.X, parent.Z, satelliteRingRadius, 1)
		req.ExtraMask = ring
		marker, ok := m.placer.AddZone(req)
		if !ok {
			logger.Sugar.Warnw("no space for satellite outpost",
				"parent", parent.String())
			continue
		}
		placed = append(placed, marker)
	}
	return placed
}

// AddTinyScrapNearCarrierAndCalcRally places a tiny scrap zone inside the
// carrier's surroundings and finds a rally point cell next to it. The rally
// point is where the player's first units gather.
func (m *Manager) AddTinyScrapNearCarrierAndCalcRally(carrierMask *mask.Grid) (*Marker, int, int, bool) {
	marker, ok := m.placer.AddZone(Request{
		Type:      TypeScrap,
		Size:      SizeTiny,
		Subtype:   SubtypeOldTankBattle,
		TeamIndex: NoTeam,
		ExtraMask: carrierMask,
	})
	if !ok {
		logger.Sugar.Warn("could not place scrap zone near carrier")
		return nil, 0, 0, false
	}
	x, z, ok := m.placer.RallyPointNear(marker, 5)
	if !ok {
		// fall back to the zone centre
		x, z = marker.X, marker.Z
	}
	return marker, x, z, true
}
