// Package mask implements the boolean occupancy grids used by placement.
//
// A Grid stores one byte per cell, row-major (x*length + z). 1 means the
// cell is available, 0 means it is excluded. Two primitives do all the work:
// stamping a disc of a value, and detecting binary transitions.
package mask

// Point is a cell coordinate on a Grid.
type Point struct {
	X, Z int
}

// Grid is a Width x Length occupancy grid.
type Grid struct {
	Width, Length int
	cells         []uint8
}

// New returns an all-zero grid.
func New(width, length int) *Grid {
	return &Grid{
		Width:  width,
		Length: length,
		cells:  make([]uint8, width*length),
	}
}

// NewFilled returns a grid with every cell set to v.
func NewFilled(width, length int, v uint8) *Grid {
	g := New(width, length)
	if v != 0 {
		for i := range g.cells {
			g.cells[i] = v
		}
	}
	return g
}

// At returns the cell value, or 0 for out-of-bounds coordinates.
func (g *Grid) At(x, z int) uint8 {
	if x < 0 || x >= g.Width || z < 0 || z >= g.Length {
		return 0
	}
	return g.cells[x*g.Length+z]
}

// Set writes v at (x, z). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, z int, v uint8) {
	if x < 0 || x >= g.Width || z < 0 || z >= g.Length {
		return
	}
	g.cells[x*g.Length+z] = v
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := New(g.Width, g.Length)
	copy(c.cells, g.cells)
	return c
}

// Intersect multiplies other into g in place: a cell stays set only if it is
// set in both grids. Grids must have identical dimensions.
func (g *Grid) Intersect(other *Grid) {
	for i := range g.cells {
		if other.cells[i] == 0 {
			g.cells[i] = 0
		}
	}
}

// StampDisc sets v for every cell within Euclidean distance radius of
// (cx, cz), clipped to the grid bounds. This is the single write primitive
// behind object occupancy, zone occupancy and zone separation.
func (g *Grid) StampDisc(cx, cz, radius int, v uint8) {
	if radius < 0 {
		return
	}
	r2 := radius * radius
	for x := cx - radius; x <= cx+radius; x++ {
		if x < 0 || x >= g.Width {
			continue
		}
		for z := cz - radius; z <= cz+radius; z++ {
			if z < 0 || z >= g.Length {
				continue
			}
			dx, dz := x-cx, z-cz
			if dx*dx+dz*dz <= r2 {
				g.cells[x*g.Length+z] = v
			}
		}
	}
}

// Transition returns a new grid marking every cell whose value differs from
// at least one 4-connected neighbour. Used to find shorelines and to erode
// candidate regions during location search.
func (g *Grid) Transition() *Grid {
	t := New(g.Width, g.Length)
	for x := 0; x < g.Width; x++ {
		for z := 0; z < g.Length; z++ {
			v := g.cells[x*g.Length+z]
			if (x > 0 && g.cells[(x-1)*g.Length+z] != v) ||
				(x < g.Width-1 && g.cells[(x+1)*g.Length+z] != v) ||
				(z > 0 && g.cells[x*g.Length+z-1] != v) ||
				(z < g.Length-1 && g.cells[x*g.Length+z+1] != v) {
				t.cells[x*g.Length+z] = 1
			}
		}
	}
	return t
}

// Cells returns the coordinates of every set cell in row-major order. The
// fixed order keeps random selection deterministic for a given seed.
func (g *Grid) Cells() []Point {
	var pts []Point
	for x := 0; x < g.Width; x++ {
		for z := 0; z < g.Length; z++ {
			if g.cells[x*g.Length+z] > 0 {
				pts = append(pts, Point{X: x, Z: z})
			}
		}
	}
	return pts
}

// Any reports whether at least one cell is set.
func (g *Grid) Any() bool {
	for _, c := range g.cells {
		if c > 0 {
			return true
		}
	}
	return false
}

// Count returns the number of set cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c > 0 {
			n++
		}
	}
	return n
}
