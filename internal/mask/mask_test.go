package mask

import "testing"

func TestStampDisc_EuclideanAndClipped(t *testing.T) {
	g := New(20, 20)
	g.StampDisc(10, 10, 3, 1)

	if g.At(10, 10) != 1 || g.At(13, 10) != 1 || g.At(10, 7) != 1 {
		t.Error("cells within radius not stamped")
	}
	if g.At(13, 13) != 0 {
		t.Error("corner cell outside Euclidean radius was stamped")
	}
	if g.At(14, 10) != 0 {
		t.Error("cell beyond radius was stamped")
	}

	// Stamp partly off-grid must not panic and must clip.
	g.StampDisc(0, 0, 5, 1)
	if g.At(0, 0) != 1 {
		t.Error("clipped stamp missing at origin")
	}
}

func TestStampDisc_ZeroErasesWithinOnes(t *testing.T) {
	g := NewFilled(10, 10, 1)
	g.StampDisc(5, 5, 2, 0)
	if g.At(5, 5) != 0 || g.At(7, 5) != 0 {
		t.Error("zero stamp did not clear cells")
	}
	if g.At(9, 9) != 1 {
		t.Error("zero stamp cleared cells outside the disc")
	}
	if g.Count() != 100-13 {
		t.Errorf("Count = %d after clearing a radius-2 disc, want %d", g.Count(), 100-13)
	}
}

func TestIntersect(t *testing.T) {
	a := NewFilled(8, 8, 1)
	b := New(8, 8)
	b.StampDisc(4, 4, 2, 1)
	a.Intersect(b)
	if a.Count() != b.Count() {
		t.Errorf("intersection with a subset must equal the subset: %d vs %d", a.Count(), b.Count())
	}
	if a.At(0, 0) != 0 {
		t.Error("cell outside b survived intersection")
	}
}

func TestTransition_MarksBoundaryBothSides(t *testing.T) {
	g := New(10, 10)
	for x := 0; x < 10; x++ {
		for z := 5; z < 10; z++ {
			g.Set(x, z, 1)
		}
	}
	tr := g.Transition()
	for x := 0; x < 10; x++ {
		if tr.At(x, 4) != 1 || tr.At(x, 5) != 1 {
			t.Fatalf("boundary row not marked at x=%d", x)
		}
		if tr.At(x, 0) != 0 || tr.At(x, 9) != 0 {
			t.Fatalf("interior cell marked as transition at x=%d", x)
		}
	}
}

func TestTransition_UniformGridEmpty(t *testing.T) {
	if NewFilled(6, 6, 1).Transition().Any() {
		t.Error("uniform grid has no transitions")
	}
	if New(6, 6).Transition().Any() {
		t.Error("all-zero grid has no transitions")
	}
}

func TestCells_RowMajorOrder(t *testing.T) {
	g := New(4, 4)
	g.Set(2, 1, 1)
	g.Set(0, 3, 1)
	g.Set(2, 0, 1)
	pts := g.Cells()
	want := []Point{{0, 3}, {2, 0}, {2, 1}}
	if len(pts) != len(want) {
		t.Fatalf("got %d cells, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("cell %d = %v, want %v (row-major order)", i, pts[i], want[i])
		}
	}
}

func TestClone_Independent(t *testing.T) {
	g := NewFilled(5, 5, 1)
	c := g.Clone()
	c.Set(2, 2, 0)
	if g.At(2, 2) != 1 {
		t.Error("mutating a clone changed the original")
	}
}

func TestAtSet_OutOfBounds(t *testing.T) {
	g := New(4, 4)
	g.Set(-1, 0, 1)
	g.Set(0, 4, 1)
	if g.Any() {
		t.Error("out-of-bounds Set wrote into the grid")
	}
	if g.At(-1, -1) != 0 || g.At(4, 4) != 0 {
		t.Error("out-of-bounds At must read as 0")
	}
}
