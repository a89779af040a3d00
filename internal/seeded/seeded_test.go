package seeded

import (
	"math"
	"testing"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(12345)
	b := New(12345)
	for i := 0; i < 1000; i++ {
		va := a.Float64()
		vb := b.Float64()
		if va != vb {
			t.Fatalf("sequence diverged at draw %d: %v != %v", i, va, vb)
		}
	}
}

func TestResetReplaysSequence(t *testing.T) {
	g := New(77)
	first := make([]float64, 32)
	for i := range first {
		first[i] = g.Float64()
	}
	g.Reset()
	for i := range first {
		if v := g.Float64(); v != first[i] {
			t.Fatalf("reset replay diverged at draw %d", i)
		}
	}
}

func TestFloat64Range(t *testing.T) {
	g := New(9)
	for i := 0; i < 10000; i++ {
		v := g.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of range: %v", v)
		}
	}
}

func TestIntNBounds(t *testing.T) {
	g := New(3)
	for i := 0; i < 10000; i++ {
		v := g.IntN(7)
		if v < 0 || v >= 7 {
			t.Fatalf("IntN out of range: %d", v)
		}
	}
	if g.IntN(0) != 0 {
		t.Fatalf("IntN(0) should return 0")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	g := New(41)
	vals := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	g.Shuffle(len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})
	seen := make(map[int]bool)
	for _, v := range vals {
		if seen[v] {
			t.Fatalf("duplicate element %d after shuffle", v)
		}
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Fatalf("shuffle lost elements: %d", len(seen))
	}
}

func TestPointInCircleWithinRadius(t *testing.T) {
	g := New(5)
	for i := 0; i < 1000; i++ {
		x, y := g.PointInCircle(3.0)
		if math.Hypot(x, y) > 3.0+1e-9 {
			t.Fatalf("point outside circle: (%v,%v)", x, y)
		}
	}
}

func TestPointOnCircleOnRadius(t *testing.T) {
	g := New(5)
	for i := 0; i < 100; i++ {
		x, y := g.PointOnCircle(2.0)
		if math.Abs(math.Hypot(x, y)-2.0) > 1e-9 {
			t.Fatalf("point not on circle: (%v,%v)", x, y)
		}
	}
}

func TestWeightedChoiceSkipsZeroWeights(t *testing.T) {
	g := New(100)
	weights := []float64{0, 0, 1, 0}
	for i := 0; i < 100; i++ {
		if idx := WeightedChoice(g, weights); idx != 2 {
			t.Fatalf("expected index 2, got %d", idx)
		}
	}
}

func TestNoise2DDeterministicAndBounded(t *testing.T) {
	a := New(2024)
	b := New(2024)
	for i := 0; i < 500; i++ {
		x := float64(i) * 0.17
		y := float64(i) * 0.31
		va := a.Noise2D(x, y)
		vb := b.Noise2D(x, y)
		if va != vb {
			t.Fatalf("noise differs for same seed at (%v,%v)", x, y)
		}
		if va < -1.0001 || va > 1.0001 {
			t.Fatalf("noise out of range: %v", va)
		}
	}
}

func TestNoiseIndependentOfDrawHistory(t *testing.T) {
	a := New(8)
	b := New(8)
	for i := 0; i < 50; i++ {
		b.Float64()
	}
	if a.Noise2D(1.5, 2.5) != b.Noise2D(1.5, 2.5) {
		t.Fatalf("noise value depends on draw history")
	}
}

func TestNormalRoughMoments(t *testing.T) {
	g := New(7)
	n := 20000
	sum := 0.0
	sumSq := 0.0
	for i := 0; i < n; i++ {
		v := g.Normal(0, 1)
		sum += v
		sumSq += v * v
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if math.Abs(mean) > 0.05 {
		t.Fatalf("normal mean too far from 0: %v", mean)
	}
	if math.Abs(variance-1.0) > 0.1 {
		t.Fatalf("normal variance too far from 1: %v", variance)
	}
}
