package zones

import (
	"github.com/hwae/hwae-go/internal/model"
	"github.com/hwae/hwae-go/internal/rng"
)

// Catalogue of placeable objects and fixed-offset templates. Template member
// offsets were measured from object lists of existing maps.

var (
	templateAlienAA = model.ObjectTemplate{
		{ObjectType: "Alienspybase", Team: model.TeamEnemy, RequiredRadius: 2},
		{ObjectType: "Alienackackgun", Team: model.TeamEnemy, RequiredRadius: 2,
			TemplateXOffset: 0.45655822656249256,
			TemplateYOffset: 18.072725546874995,
			TemplateZOffset: 0.008398056640626095},
	}
	templateAlienRadar = model.ObjectTemplate{
		{ObjectType: "Alienspybase", Team: model.TeamEnemy, RequiredRadius: 2},
		{ObjectType: "Alienspytower", Team: model.TeamEnemy, RequiredRadius: 2,
			TemplateXOffset: -0.15502599226306346,
			TemplateYOffset: 21.23187597678917,
			TemplateZOffset: -0.0021609052224445015},
	}
	templatePowerStoreTriangle = model.ObjectTemplate{
		{ObjectType: "alienpowerstore", Team: model.TeamEnemy, RequiredRadius: 3, YOffset: 3},
		{ObjectType: "alienpowerstore", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateXOffset: 2},
		{ObjectType: "alienpowerstore", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateXOffset: 1, TemplateZOffset: 1.732},
	}
	templateGroundProdWithUnits = model.ObjectTemplate{
		{ObjectType: "ALIENGROUNDPROD", Team: model.TeamEnemy, RequiredRadius: 5},
		{ObjectType: "LightWalker", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateXOffset: 1.5, TemplateZOffset: -1.299},
		{ObjectType: "HeavyWalker", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateZOffset: 1.5},
	}
	templateAirProdWithUnits = model.ObjectTemplate{
		{ObjectType: "AlienProdTower", Team: model.TeamEnemy, RequiredRadius: 3},
		{ObjectType: "SmallFlyer", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateXOffset: 1.5, TemplateZOffset: -1.299},
		{ObjectType: "MediumFlyer", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateZOffset: 1.5},
	}
	templateLargeProdWithUnits = model.ObjectTemplate{
		{ObjectType: "ALIENLARGEPROD", Team: model.TeamEnemy, RequiredRadius: 3},
		{ObjectType: "HoverLaser", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateXOffset: 1.5, TemplateZOffset: -1.299},
		{ObjectType: "SiegeSlug", Team: model.TeamEnemy, RequiredRadius: 3,
			TemplateZOffset: 1.5},
	}
	templateSixByTwoSilo = model.ObjectTemplate{
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, YOffset: 5.5},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateZOffset: 1},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateXOffset: 1},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateXOffset: 1, TemplateZOffset: 1},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateXOffset: 2},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateXOffset: 2, TemplateZOffset: 1},
	}
	templateFourByTwoSilo = model.ObjectTemplate{
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, YOffset: 5.5},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateZOffset: 1},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateXOffset: 1},
		{ObjectType: "l2silo", Team: model.TeamNeutral, RequiredRadius: 3, TemplateXOffset: 1, TemplateZOffset: 1},
	}
	templateThreeOilTanks = model.ObjectTemplate{
		{ObjectType: "l2fueltank", Team: model.TeamNeutral, RequiredRadius: 1, YOffset: 1.752, YRotation: 90},
		{ObjectType: "l2fueltank", Team: model.TeamNeutral, RequiredRadius: 1, TemplateXOffset: 0.5, YRotation: 90},
		{ObjectType: "l2fueltank", Team: model.TeamNeutral, RequiredRadius: 1, TemplateXOffset: 1, YRotation: 90},
	}
)

var (
	baseWallGun = model.ObjectContainer{ObjectType: "AlienTower", Team: model.TeamEnemy,
		RequiredRadius: 2, AttachmentType: "WallLaser"}
	baseLightningGun = model.ObjectContainer{ObjectType: "AlienTower", Team: model.TeamEnemy,
		RequiredRadius: 2, AttachmentType: "LightningGun"}
	baseBlastTower = model.ObjectContainer{ObjectType: "BlastTower", Team: model.TeamEnemy,
		RequiredRadius: 2, YOffset: 2}
	baseOilPump = model.ObjectContainer{ObjectType: "ALIENPUMP", Team: model.TeamEnemy,
		RequiredRadius: 1}
	baseGroundProd = model.ObjectContainer{ObjectType: "ALIENGROUNDPROD", Team: model.TeamEnemy,
		RequiredRadius: 5}
	baseLargeProd = model.ObjectContainer{ObjectType: "ALIENLARGEPROD", Team: model.TeamEnemy,
		RequiredRadius: 6}
	baseAirProd = model.ObjectContainer{ObjectType: "AlienProdTower", Team: model.TeamEnemy,
		RequiredRadius: 3}
	baseCom = model.ObjectContainer{ObjectType: "ALIENCOMCENTER", Team: model.TeamEnemy,
		RequiredRadius: 5}

	scrapDestroyedCopter = model.ObjectContainer{ObjectType: "Smashedcopter", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 2}
	scrapTankwreck  = model.ObjectContainer{ObjectType: "Tankwreck", Team: model.TeamNeutral, RequiredRadius: 1}
	scrapTankwreck1 = model.ObjectContainer{ObjectType: "tankwreck1", Team: model.TeamNeutral, RequiredRadius: 1}
	scrapTankwreck2 = model.ObjectContainer{ObjectType: "tankwreck2", Team: model.TeamNeutral, RequiredRadius: 1}
	scrapFuelTank   = model.ObjectContainer{ObjectType: "l2fueltank", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 1.752}
	scrapFuelSilo = model.ObjectContainer{ObjectType: "l2silo", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 5.5}
	scrapBentPipe = model.ObjectContainer{ObjectType: "l1scavbentpipe", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 2}
	scrapHolePipe = model.ObjectContainer{ObjectType: "l1scavholepipe", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 2}
	scrapBentBackGun = model.ObjectContainer{ObjectType: "l1scavbentbackgun", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 2}
	scrapBentGun = model.ObjectContainer{ObjectType: "l1scavgunbroken02", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 2}
	destroyedGroundProd = model.ObjectContainer{ObjectType: "Smashedgroundprod", Team: model.TeamNeutral,
		RequiredRadius: 3, YOffset: 2}
	destroyedStore = model.ObjectContainer{ObjectType: "Smashedstore", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 2}
	destroyedWall = model.ObjectContainer{ObjectType: "Smashedwall", Team: model.TeamNeutral,
		RequiredRadius: 1, YOffset: 2}

	weaponCrate = model.ObjectContainer{ObjectType: "recharge_crate", Team: model.TeamNeutral, RequiredRadius: 1}
	smallBox    = model.ObjectContainer{ObjectType: "l6box", Team: model.TeamNeutral, RequiredRadius: 1}
	greenBox    = model.ObjectContainer{ObjectType: "crate_green", Team: model.TeamNeutral, RequiredRadius: 1}
	scrapTruck  = model.ObjectContainer{ObjectType: "l3truck", Team: model.TeamNeutral, RequiredRadius: 1}
)

// Pool is a weighted set of placeables; sampling is weight-proportional with
// replacement. Pools are ordered slices, never maps, so draws are
// reproducible for a fixed seed.
type Pool = []rng.Weighted[model.Placeable]

var (
	basePriority1 = Pool{
		{Item: templateGroundProdWithUnits, Weight: 6},
		{Item: templateAirProdWithUnits, Weight: 6},
		{Item: templateLargeProdWithUnits, Weight: 6},
		{Item: baseCom, Weight: 1},
	}
	basePriority2 = Pool{
		{Item: templatePowerStoreTriangle, Weight: 1},
	}
	baseAllOther = Pool{
		{Item: baseWallGun, Weight: 8},
		{Item: baseLightningGun, Weight: 8},
		{Item: baseBlastTower, Weight: 8},
		{Item: templateAlienAA, Weight: 4},
		{Item: baseGroundProd, Weight: 2},
		{Item: baseAirProd, Weight: 2},
		{Item: baseLargeProd, Weight: 2},
		{Item: templateGroundProdWithUnits, Weight: 1},
		{Item: templateAirProdWithUnits, Weight: 1},
		{Item: baseOilPump, Weight: 3},
		{Item: baseCom, Weight: 2},
		{Item: templateAlienRadar, Weight: 1},
	}

	pumpOutpostPriority = Pool{
		{Item: baseOilPump, Weight: 1},
	}
	pumpOutpostAll = Pool{
		{Item: baseWallGun, Weight: 4},
		{Item: baseLightningGun, Weight: 2},
		{Item: baseBlastTower, Weight: 3},
		{Item: templateAlienAA, Weight: 2},
		{Item: baseOilPump, Weight: 3},
		{Item: templateAlienRadar, Weight: 1},
	}

	destroyedBasePriority = Pool{
		{Item: destroyedGroundProd, Weight: 5},
		{Item: destroyedStore, Weight: 1},
		{Item: destroyedWall, Weight: 1},
	}
	scrapDestroyedBase = Pool{
		{Item: scrapBentPipe, Weight: 5},
		{Item: scrapHolePipe, Weight: 5},
		{Item: scrapBentBackGun, Weight: 1},
		{Item: scrapBentGun, Weight: 1},
		{Item: scrapDestroyedCopter, Weight: 1},
		{Item: scrapTankwreck, Weight: 1},
		{Item: scrapTankwreck1, Weight: 1},
		{Item: scrapTankwreck2, Weight: 1},
		{Item: destroyedStore, Weight: 1},
	}

	scrapBattle = Pool{
		{Item: scrapTankwreck, Weight: 1},
		{Item: scrapTankwreck1, Weight: 1},
		{Item: scrapTankwreck2, Weight: 1},
		{Item: scrapDestroyedCopter, Weight: 1},
	}

	weaponCratePriority = Pool{
		{Item: weaponCrate, Weight: 1},
	}
	weaponCrateOthers = Pool{
		{Item: smallBox, Weight: 4},
		{Item: greenBox, Weight: 8},
		{Item: scrapTruck, Weight: 1},
	}

	scrapFuelTanks = Pool{
		{Item: templateSixByTwoSilo, Weight: 2},
		{Item: templateFourByTwoSilo, Weight: 2},
		{Item: templateThreeOilTanks, Weight: 2},
		{Item: scrapFuelTank, Weight: 1},
		{Item: scrapFuelSilo, Weight: 1},
	}
)

// MiscAlienTemplates are scattered outside zones (AA guns, radar posts).
var MiscAlienTemplates = []model.ObjectTemplate{
	templateAlienAA,
	templateAlienRadar,
}

// PoolSet resolves a zone subtype into its tiered pools: priority1 draws
// P1Count items, priority2 draws P2Count, and Fill covers the remaining
// budget up to the zone's object count.
type PoolSet struct {
	Priority1 Pool
	P1Count   int
	Priority2 Pool
	P2Count   int
	Fill      Pool
}

// PoolsFor returns the pool set for a placed zone. Priority counts for
// generic bases scale with zone size.
func PoolsFor(m *Marker) PoolSet {
	switch m.Subtype {
	case SubtypeGenericBase:
		return PoolSet{
			Priority1: basePriority1,
			P1Count:   int(m.Size),
			Priority2: basePriority2,
			P2Count:   2,
			Fill:      baseAllOther,
		}
	case SubtypePumpOutpost:
		return PoolSet{
			Priority1: pumpOutpostPriority,
			P1Count:   4,
			Fill:      pumpOutpostAll,
		}
	case SubtypeDestroyedBase:
		return PoolSet{
			Priority1: destroyedBasePriority,
			P1Count:   1,
			Fill:      scrapDestroyedBase,
		}
	case SubtypeOldTankBattle:
		return PoolSet{Fill: scrapBattle}
	case SubtypeFuelTanks:
		return PoolSet{Fill: scrapFuelTanks}
	case SubtypeWeaponCrate:
		return PoolSet{
			Priority1: weaponCratePriority,
			P1Count:   3,
			Fill:      weaponCrateOthers,
		}
	}
	return PoolSet{Fill: scrapBattle}
}
