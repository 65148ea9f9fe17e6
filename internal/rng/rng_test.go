package rng

import "testing"

func TestRandInt_RangeExclusiveHigh(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		v := g.RandInt(3, 7)
		if v < 3 || v > 6 {
			t.Fatalf("RandInt(3, 7) = %d, want [3, 7)", v)
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.RandInt(0, 1000) != b.RandInt(0, 1000) {
			t.Fatal("same seed must yield identical sequences")
		}
	}

	na := New(42).NoiseMap(32, 32, 0)
	nb := New(42).NoiseMap(32, 32, 0)
	for i := range na {
		if na[i] != nb[i] {
			t.Fatal("noise maps differ for the same seed")
		}
	}
}

func TestGenerator_DifferentSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.RandInt(0, 1000000) != b.RandInt(0, 1000000) {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical sequences")
	}
}

func TestNoiseMap_NormalisedAndCutoff(t *testing.T) {
	g := New(7)
	m := g.NoiseMap(64, 48, 0.3)
	if len(m) != 64*48 {
		t.Fatalf("len = %d, want %d", len(m), 64*48)
	}
	sawZero, sawHigh := false, false
	for _, v := range m {
		if v < 0 || v > 1 {
			t.Fatalf("value %f outside [0, 1]", v)
		}
		if v != 0 && v < 0.3 {
			t.Fatalf("value %f below cutoff survived", v)
		}
		if v == 0 {
			sawZero = true
		}
		if v > 0.5 {
			sawHigh = true
		}
	}
	if !sawZero || !sawHigh {
		t.Error("expected both cut-off and high values in the map")
	}
}

func TestSample_WeightProportional(t *testing.T) {
	g := New(99)
	pool := []Weighted[string]{
		{Item: "common", Weight: 9},
		{Item: "rare", Weight: 1},
	}
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[Sample(g, pool)]++
	}
	if counts["common"] < 8500 || counts["common"] > 9500 {
		t.Errorf("common drawn %d of 10000, want around 9000", counts["common"])
	}
	if counts["rare"] == 0 {
		t.Error("rare item never drawn")
	}
}

func TestSample_SingleItem(t *testing.T) {
	g := New(1)
	pool := []Weighted[int]{{Item: 5, Weight: 3}}
	for i := 0; i < 10; i++ {
		if Sample(g, pool) != 5 {
			t.Fatal("single-item pool must always return that item")
		}
	}
}

func TestRandomSublist_Bounds(t *testing.T) {
	g := New(3)
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	for i := 0; i < 200; i++ {
		sub := RandomSublist(g, items, 2, 5)
		if len(sub) < 2 || len(sub) > 5 {
			t.Fatalf("sublist length %d outside [2, 5]", len(sub))
		}
		seen := map[int]bool{}
		for _, v := range sub {
			if seen[v] {
				t.Fatal("sublist contains duplicates")
			}
			seen[v] = true
		}
	}

	// Short input comes back whole.
	short := []int{1, 2}
	sub := RandomSublist(g, short, 4, 9999)
	if len(sub) != 2 {
		t.Errorf("short list should be returned whole, got %d elements", len(sub))
	}
}
