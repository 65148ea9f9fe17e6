// Package terrain wraps the LEV heightfield with the shaping and mask
// derivation passes used during map generation.
package terrain

import (
	"math"

	"github.com/hwae/hwae-go/internal/logger"
	"github.com/hwae/hwae-go/internal/mask"
	"github.com/hwae/hwae-go/internal/rng"
	"github.com/hwae/hwae-go/pkg/formats"
)

// Height range the final terrain is scaled into, chosen by in-game testing.
const (
	minTerrainHeight = -1000
	maxTerrainHeight = 2200
	deepWaterFloor   = -100
)

// Flattening parameters for zone discs.
const (
	flattenMinHeight = 30 // zones never average into water
	flattenSmoothing = 10 // falloff ring width in cells
)

// Terrain owns the heightfield of one generation run.
type Terrain struct {
	lev *formats.Lev
	gen *rng.Generator

	Width, Length int
}

// New wraps an already-parsed LEV container.
func New(lev *formats.Lev, gen *rng.Generator) *Terrain {
	return &Terrain{
		lev:    lev,
		gen:    gen,
		Width:  int(lev.Header.Width),
		Length: int(lev.Header.Length),
	}
}

// At returns the terrain point at (x, z). Coordinates must be in bounds.
func (t *Terrain) At(x, z int) *formats.TerrainPoint {
	return &t.lev.TerrainPoints[x*t.Length+z]
}

// InBounds reports whether (x, z) is a valid cell.
func (t *Terrain) InBounds(x, z int) bool {
	return x >= 0 && x < t.Width && z >= 0 && z < t.Length
}

// Height returns the height at (x, z), or the deep water floor out of bounds.
func (t *Terrain) Height(x, z int) float64 {
	if !t.InBounds(x, z) {
		return deepWaterFloor
	}
	return float64(t.At(x, z).Height)
}

// SetHeight writes the height at (x, z).
func (t *Terrain) SetHeight(x, z int, h float64) {
	if t.InBounds(x, z) {
		t.At(x, z).Height = float32(h)
	}
}

// RandomiseTextureDirs randomises the texture direction of every point.
// Cheap way to break up visible tiling.
func (t *Terrain) RandomiseTextureDirs() {
	for x := 0; x < t.Width; x++ {
		for z := 0; z < t.Length; z++ {
			t.At(x, z).TextureDir = uint8(t.gen.RandInt(0, 8))
		}
	}
}

// scaleHeights rescales all heights into [minVal, maxVal] preserving the
// distribution. A constant heightfield collapses to minVal.
func (t *Terrain) scaleHeights(minVal, maxVal float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range t.lev.TerrainPoints {
		h := float64(t.lev.TerrainPoints[i].Height)
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	if hi == lo {
		for i := range t.lev.TerrainPoints {
			t.lev.TerrainPoints[i].Height = float32(minVal)
		}
		return
	}
	scale := (maxVal - minVal) / (hi - lo)
	for i := range t.lev.TerrainPoints {
		h := float64(t.lev.TerrainPoints[i].Height)
		t.lev.TerrainPoints[i].Height = float32(minVal + (h-lo)*scale)
	}
}

// SetTerrainFromNoise builds the island heightfield: a fractal noise base,
// multiplied by a noise-perturbed radial outline so land forms one contiguous
// island, rescaled into the playable height range, with everything below the
// water floor clamped flat and every point marked drawable.
func (t *Terrain) SetTerrainFromNoise(waterCutoff float64) {
	noiseMap := t.gen.NoiseMap(t.Width, t.Length, waterCutoff)
	for x := 0; x < t.Width; x++ {
		for z := 0; z < t.Length; z++ {
			t.At(x, z).Height = float32(noiseMap[x*t.Length+z])
		}
	}

	t.applyIslandOutline()
	t.scaleHeights(minTerrainHeight, maxTerrainHeight)

	for i := range t.lev.TerrainPoints {
		if t.lev.TerrainPoints[i].Height < deepWaterFloor {
			t.lev.TerrainPoints[i].Height = deepWaterFloor
		}
		t.lev.TerrainPoints[i].Flags = formats.TPDraw
	}
	logger.Sugar.Infow("terrain generated from noise",
		"width", t.Width, "length", t.Length)
}

// applyIslandOutline multiplies heights by a radial falloff whose edge radius
// is perturbed by low-frequency noise, so the coastline is irregular but the
// landmass stays contiguous and away from the map border.
func (t *Terrain) applyIslandOutline() {
	cx := float64(t.Width) / 2
	cz := float64(t.Length) / 2
	baseRadius := math.Min(cx, cz) * 0.85
	for x := 0; x < t.Width; x++ {
		for z := 0; z < t.Length; z++ {
			dx := float64(x) - cx
			dz := float64(z) - cz
			dist := math.Hypot(dx, dz)
			angle := math.Atan2(dz, dx)
			// perturb the coastline radius by up to 25%
			n := t.gen.Noise2D(math.Cos(angle)*2+3, math.Sin(angle)*2+3)
			edge := baseRadius * (0.75 + 0.25*(n+1)/2)
			factor := 1 - (dist/edge)*(dist/edge)
			if factor < 0 {
				factor = 0
			}
			t.At(x, z).Height *= float32(factor)
		}
	}
}

// FlattenZone levels the disc at (cx, cz, radius) to its mean height, then
// blends linearly back to the original height over the smoothing ring just
// outside the disc. The mean is clamped so a zone never sits underwater.
func (t *Terrain) FlattenZone(cx, cz, radius int) {
	var sum float64
	var count int
	r2 := radius * radius
	for x := cx - radius; x <= cx+radius; x++ {
		for z := cz - radius; z <= cz+radius; z++ {
			if !t.InBounds(x, z) {
				continue
			}
			dx, dz := x-cx, z-cz
			if dx*dx+dz*dz <= r2 {
				sum += t.Height(x, z)
				count++
			}
		}
	}
	if count == 0 {
		return
	}
	mean := sum / float64(count)
	if mean < flattenMinHeight {
		mean = flattenMinHeight
	}

	outer := radius + flattenSmoothing
	for x := cx - outer; x <= cx+outer; x++ {
		for z := cz - outer; z <= cz+outer; z++ {
			if !t.InBounds(x, z) {
				continue
			}
			dist := math.Hypot(float64(x-cx), float64(z-cz))
			switch {
			case dist <= float64(radius):
				t.SetHeight(x, z, mean)
			case dist <= float64(outer):
				// linear falloff from the zone boundary outwards
				blend := (dist - float64(radius)) / flattenSmoothing
				t.SetHeight(x, z, mean*(1-blend)+t.Height(x, z)*blend)
			}
		}
	}
}

// TextureZone paints the disc at (cx, cz, radius) with the given material.
func (t *Terrain) TextureZone(cx, cz, radius int, material uint8) {
	r2 := radius * radius
	for x := cx - radius; x <= cx+radius; x++ {
		for z := cz - radius; z <= cz+radius; z++ {
			if !t.InBounds(x, z) {
				continue
			}
			dx, dz := x-cx, z-cz
			if dx*dx+dz*dz <= r2 {
				t.At(x, z).Mat = material
			}
		}
	}
}

// LandMask returns a grid with 1 wherever height exceeds cutoff.
func (t *Terrain) LandMask(cutoff float64) *mask.Grid {
	g := mask.New(t.Width, t.Length)
	for x := 0; x < t.Width; x++ {
		for z := 0; z < t.Length; z++ {
			if t.Height(x, z) > cutoff {
				g.Set(x, z, 1)
			}
		}
	}
	return g
}

// WaterMask is the complement of LandMask.
func (t *Terrain) WaterMask(cutoff float64) *mask.Grid {
	g := mask.New(t.Width, t.Length)
	for x := 0; x < t.Width; x++ {
		for z := 0; z < t.Length; z++ {
			if t.Height(x, z) <= cutoff {
				g.Set(x, z, 1)
			}
		}
	}
	return g
}

// CoastMask returns the water cells within radius of a shoreline: the
// land/water transition dilated by radius, intersected with the water mask.
func (t *Terrain) CoastMask(cutoff float64, radius int) *mask.Grid {
	land := t.LandMask(cutoff)
	shore := land.Transition()
	dilated := mask.New(t.Width, t.Length)
	for _, p := range shore.Cells() {
		dilated.StampDisc(p.X, p.Z, radius, 1)
	}
	dilated.Intersect(t.WaterMask(cutoff))
	return dilated
}
