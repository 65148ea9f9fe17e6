// Package minimap rasterises the in-game overview map from the final
// heightfield and writes it as an 8-bit PCX image.
package minimap

import (
	"github.com/hwae/hwae-go/internal/terrain"
	"github.com/hwae/hwae-go/pkg/formats"
)

// The game expects a 128x128 map image.
const size = 128

// Palette layout: entry 0 is water, the rest a hypsometric land ramp from
// lowland green through brown to summit grey.
const (
	waterIndex = 0
	rampStart  = 1
	rampSteps  = 64
)

var waterColor = [3]byte{66, 156, 181}

// rampColor interpolates the land tint for t in [0, 1].
func rampColor(t float64) [3]byte {
	type stop struct {
		at      float64
		r, g, b float64
	}
	stops := []stop{
		{0.0, 64, 120, 48},   // lowland green
		{0.45, 140, 120, 60}, // dry grass
		{0.8, 120, 96, 80},   // rock
		{1.0, 200, 200, 200}, // summit
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if t <= b.at {
			f := (t - a.at) / (b.at - a.at)
			return [3]byte{
				byte(a.r + (b.r-a.r)*f),
				byte(a.g + (b.g-a.g)*f),
				byte(a.b + (b.b-a.b)*f),
			}
		}
	}
	return [3]byte{200, 200, 200}
}

// Render draws the minimap into a PCX image: the terrain is downsampled to
// 128x128, cells at or below waterCutoff painted flat blue and land cells
// tinted by height. The image is mirrored vertically to match the game's
// map orientation.
func Render(t *terrain.Terrain, waterCutoff float64) *formats.PCXImage {
	img := formats.NewPCXImage(size, size)
	img.Palette[waterIndex] = waterColor
	for i := 0; i < rampSteps; i++ {
		img.Palette[rampStart+i] = rampColor(float64(i) / float64(rampSteps-1))
	}

	strideX := t.Width / size
	strideZ := t.Length / size
	if strideX < 1 {
		strideX = 1
	}
	if strideZ < 1 {
		strideZ = 1
	}

	// land height range for the ramp
	minLand, maxLand := 0.0, 1.0
	first := true
	for x := 0; x < t.Width; x += strideX {
		for z := 0; z < t.Length; z += strideZ {
			h := t.Height(x, z)
			if h <= waterCutoff {
				continue
			}
			if first {
				minLand, maxLand = h, h
				first = false
				continue
			}
			if h < minLand {
				minLand = h
			}
			if h > maxLand {
				maxLand = h
			}
		}
	}
	span := maxLand - minLand
	if span == 0 {
		span = 1
	}

	for px := 0; px < size; px++ {
		for pz := 0; pz < size; pz++ {
			x := px * strideX
			z := pz * strideZ
			if x >= t.Width {
				x = t.Width - 1
			}
			if z >= t.Length {
				z = t.Length - 1
			}
			idx := byte(waterIndex)
			if h := t.Height(x, z); h > waterCutoff {
				step := int(float64(rampSteps-1) * (h - minLand) / span)
				idx = byte(rampStart + step)
			}
			// mirrored vertically for the game's map orientation
			img.Pixels[(size-1-px)*size+pz] = idx
		}
	}
	return img
}

// Generate renders the minimap and writes it to folder/name.
func Generate(t *terrain.Terrain, waterCutoff float64, folder, name string) error {
	return Render(t, waterCutoff).Save(folder, name)
}
