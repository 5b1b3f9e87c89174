package metrics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/sim"
)

func TestEnergyDrift(t *testing.T) {
	d := NewEnergyDrift()

	d.OnStep(sim.StepInfo{Potential: -2.0, Kinetic: 1.0})
	d.OnStep(sim.StepInfo{Potential: -2.0, Kinetic: 1.0})
	if d.Value() != 0 {
		t.Errorf("constant energy should show zero drift, got %g", d.Value())
	}

	d.OnStep(sim.StepInfo{Potential: -2.0, Kinetic: 1.1})
	want := 0.1 / 1.0
	if math.Abs(d.Value()-want) > 1e-12 {
		t.Errorf("drift = %g, want %g", d.Value(), want)
	}

	d.Reset()
	if d.Value() != 0 {
		t.Error("reset should clear the drift")
	}
}

func TestRDFUniformGas(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 800
	snap := &md.Snapshot{
		Pos: make([]md.Vec, n),
		Box: md.NewPeriodicBox(10, 10, 10),
	}
	for i := range snap.Pos {
		snap.Pos[i] = md.Vec{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
	}

	rdf, err := ComputeRDF(snap, 3.0, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(rdf.R) != 30 || len(rdf.G) != 30 {
		t.Fatalf("unexpected bin count: %d", len(rdf.G))
	}

	// An ideal gas has g(r) = 1. Average the outer bins where per-bin
	// statistics are good.
	sum, count := 0.0, 0
	for b := range rdf.G {
		if rdf.R[b] > 1.0 {
			sum += rdf.G[b]
			count++
		}
	}
	mean := sum / float64(count)
	if math.Abs(mean-1.0) > 0.05 {
		t.Errorf("uniform gas g(r) mean = %g, want about 1", mean)
	}
}

func TestRDFLatticePeak(t *testing.T) {
	snap, err := sim.SCLattice(2.0, 5)
	if err != nil {
		t.Fatal(err)
	}

	rdf, err := ComputeRDF(snap, 3.0, 60)
	if err != nil {
		t.Fatal(err)
	}

	// Nearest neighbors of a simple cubic lattice sit exactly at the
	// spacing; everything below must be empty.
	peak := 0
	for b := range rdf.G {
		if rdf.G[b] > rdf.G[peak] {
			peak = b
		}
	}
	if math.Abs(rdf.R[peak]-2.0) > 0.06 {
		t.Errorf("first peak at r = %g, want 2.0", rdf.R[peak])
	}
	for b := range rdf.G {
		if rdf.R[b] < 1.9 && rdf.G[b] != 0 {
			t.Errorf("g(%g) = %g below the nearest-neighbor distance", rdf.R[b], rdf.G[b])
		}
	}
}

func TestRDFValidation(t *testing.T) {
	snap, err := sim.SCLattice(2.0, 5)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ComputeRDF(snap, 6.0, 30); !errors.Is(err, md.ErrInvalidArgument) {
		t.Errorf("rMax beyond half the box: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := ComputeRDF(snap, 3.0, 0); !errors.Is(err, md.ErrInvalidArgument) {
		t.Errorf("zero bins: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := ComputeRDF(&md.Snapshot{Pos: []md.Vec{{0, 0, 0}}, Box: md.NewPeriodicBox(10, 10, 10)}, 3.0, 30); !errors.Is(err, md.ErrInvalidArgument) {
		t.Errorf("single particle: expected ErrInvalidArgument, got %v", err)
	}
}
