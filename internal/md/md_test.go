package md

import (
	"errors"
	"math"
	"testing"
)

func TestBoxWrap(t *testing.T) {
	b := NewPeriodicBox(10, 10, 10)

	tests := []struct {
		in, want Vec
	}{
		{Vec{1, 2, 3}, Vec{1, 2, 3}},
		{Vec{11, -2, 3}, Vec{1, 8, 3}},
		{Vec{-0.5, 10.0, 25.0}, Vec{9.5, 0, 5}},
	}

	for _, tt := range tests {
		got := b.Wrap(tt.in)
		for k := 0; k < 3; k++ {
			if math.Abs(got[k]-tt.want[k]) > 1e-12 {
				t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestBoxMinImage(t *testing.T) {
	b := NewPeriodicBox(10, 10, 10)

	d := b.MinImage(Vec{9, -9, 0.5})
	want := Vec{-1, 1, 0.5}
	for k := 0; k < 3; k++ {
		if math.Abs(d[k]-want[k]) > 1e-12 {
			t.Fatalf("MinImage = %v, want %v", d, want)
		}
	}

	// Non-periodic axes are left alone.
	b.Periodic[2] = false
	d = b.MinImage(Vec{0, 0, 9})
	if d[2] != 9 {
		t.Errorf("non-periodic axis was folded: got %v", d[2])
	}
}

func TestBoxDistanceAcrossBoundary(t *testing.T) {
	b := NewPeriodicBox(10, 10, 10)
	d2 := b.Distance2(Vec{0.5, 5, 5}, Vec{9.5, 5, 5})
	if math.Abs(d2-1.0) > 1e-12 {
		t.Errorf("expected squared distance 1 across boundary, got %f", d2)
	}
}

func TestCutoffsSymmetry(t *testing.T) {
	c := NewCutoffs(3)
	if err := c.Set(0, 2, 2.5); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if c.Get(2, 0) != 2.5 {
		t.Errorf("cutoff not symmetric: got %f", c.Get(2, 0))
	}
	if c.Max() != 2.5 {
		t.Errorf("expected max 2.5, got %f", c.Max())
	}
}

func TestCutoffsInvalid(t *testing.T) {
	c := NewCutoffs(2)

	if err := c.Set(0, 1, -1.0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("negative r_cut: expected ErrConfiguration, got %v", err)
	}
	if err := c.Set(0, 5, 1.0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("out-of-range type: expected ErrConfiguration, got %v", err)
	}
}

func TestExclusions(t *testing.T) {
	snap := &Snapshot{
		Pos:  make([]Vec, 4),
		Body: []int{0, 0, NoBody, 1},
		Box:  NewPeriodicBox(1, 1, 1),
	}

	e := NewExclusions()
	e.AddPair(2, 3)

	if !e.Excluded(snap, 3, 2) {
		t.Error("explicit pair should be excluded in both directions")
	}
	if e.Excluded(snap, 0, 1) {
		t.Error("same-body pair excluded without the body rule enabled")
	}

	e.ExcludeSameBody(true)
	if !e.Excluded(snap, 0, 1) {
		t.Error("same-body pair should be excluded")
	}
	if e.Excluded(snap, 2, 0) {
		t.Error("NoBody particle must never match by body")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	n := 1000
	hit := make([]int, n)
	ParallelFor(n, 16, func(start, end int) {
		for i := start; i < end; i++ {
			hit[i]++
		}
	})
	for i, h := range hit {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}
