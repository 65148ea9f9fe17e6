// Package rng is the single source of randomness for a generation run.
//
// Every component draws from one shared Generator, so call order is part of
// the reproducibility contract: the same seed and the same call sequence
// produce the identical map.
package rng

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// Fractal noise parameters, tuned for island-scale terrain.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 5
)

// Generator wraps a seeded PRNG plus a Perlin noise source.
type Generator struct {
	seed  int64
	rand  *rand.Rand
	noise *perlin.Perlin
}

// New returns a Generator deterministically derived from seed.
func New(seed int64) *Generator {
	return &Generator{
		seed:  seed,
		rand:  rand.New(rand.NewSource(seed)),
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int64 { return g.seed }

// RandInt returns a value in [low, high). high must be greater than low.
func (g *Generator) RandInt(low, high int) int {
	return low + g.rand.Intn(high-low)
}

// Float64 returns a value in [0, 1).
func (g *Generator) Float64() float64 { return g.rand.Float64() }

// Perm returns a random permutation of [0, n).
func (g *Generator) Perm(n int) []int { return g.rand.Perm(n) }

// Noise2D samples the fractal noise field at (x, y).
func (g *Generator) Noise2D(x, y float64) float64 {
	return g.noise.Noise2D(x, y)
}

// NoiseMap generates a width*length fractal noise field, min-max normalised
// to [0, 1], stored row-major (x*length + z). Values below cutoff are set to
// zero, which is how terrain generation carves out water.
func (g *Generator) NoiseMap(width, length int, cutoff float64) []float64 {
	vals := make([]float64, width*length)
	lo, hi := math.Inf(1), math.Inf(-1)
	for x := 0; x < width; x++ {
		for z := 0; z < length; z++ {
			// 8 noise periods across the map
			v := g.noise.Noise2D(8*float64(x)/float64(width), 8*float64(z)/float64(length))
			vals[x*length+z] = v
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i, v := range vals {
		v = (v - lo) / span
		if v < cutoff {
			v = 0
		}
		vals[i] = v
	}
	return vals
}

// Weighted pairs a pool item with a positive integer weight.
type Weighted[T any] struct {
	Item   T
	Weight int
}

// Sample picks one item from pool, weight-proportionally with replacement.
// The pool must be non-empty with a positive total weight.
func Sample[T any](g *Generator, pool []Weighted[T]) T {
	total := 0
	for _, w := range pool {
		total += w.Weight
	}
	n := g.RandInt(0, total)
	for _, w := range pool {
		n -= w.Weight
		if n < 0 {
			return w.Item
		}
	}
	// unreachable for a valid pool
	return pool[len(pool)-1].Item
}

// SelectRandom returns a uniformly random element of items.
func SelectRandom[T any](g *Generator, items []T) T {
	return items[g.RandInt(0, len(items))]
}

// RandomSublist picks a random subset of items with between minN and maxN
// elements. If items has minN or fewer elements the whole list is returned.
func RandomSublist[T any](g *Generator, items []T, minN, maxN int) []T {
	n := len(items)
	if n <= minN {
		return append([]T(nil), items...)
	}
	var k int
	switch {
	case n <= maxN:
		if minN == n {
			k = minN
		} else {
			k = g.RandInt(minN, n)
		}
	default:
		if minN == maxN {
			k = minN
		} else {
			k = g.RandInt(minN, maxN)
		}
	}
	if k <= 0 {
		return nil
	}
	idx := g.Perm(n)[:k]
	out := make([]T, 0, k)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}
