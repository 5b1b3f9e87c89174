package forces

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/nlist"
)

func pairSystem(t *testing.T, r float64) (*md.Snapshot, *LJ, *nlist.List) {
	t.Helper()
	snap := &md.Snapshot{
		Pos: []md.Vec{{5, 5, 5}, {5 + r, 5, 5}},
		Box: md.NewPeriodicBox(10, 10, 10),
	}

	cut := md.NewCutoffs(1)
	if err := cut.Set(0, 0, 2.5); err != nil {
		t.Fatal(err)
	}
	lj := NewLJ(cut)
	if err := lj.SetPair(0, 0, 1.0, 1.0); err != nil {
		t.Fatal(err)
	}

	b := &nlist.Builder{Index: nlist.NewCellIndex(), Mode: nlist.Full}
	list, err := b.Build(snap, 3.0)
	if err != nil {
		t.Fatal(err)
	}
	return snap, lj, list
}

func TestLJMinimum(t *testing.T) {
	rMin := math.Pow(2, 1.0/6)
	snap, lj, list := pairSystem(t, rMin)

	f := make([]md.Vec, 2)
	pe, err := lj.Compute(snap, list, f)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(pe-(-1.0)) > 1e-10 {
		t.Errorf("potential at r_min = %f, want -1", pe)
	}
	if f[0].Norm() > 1e-10 || f[1].Norm() > 1e-10 {
		t.Errorf("force at the minimum should vanish, got %v %v", f[0], f[1])
	}
}

func TestLJForceDirection(t *testing.T) {
	// Closer than the minimum: repulsion pushes the pair apart.
	snap, lj, list := pairSystem(t, 1.0)
	f := make([]md.Vec, 2)
	pe, err := lj.Compute(snap, list, f)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(pe) > 1e-10 {
		t.Errorf("potential at r=sigma = %f, want 0", pe)
	}
	if f[0][0] >= 0 {
		t.Errorf("particle 0 should be pushed in -x, got fx=%f", f[0][0])
	}
	if f[1][0] <= 0 {
		t.Errorf("particle 1 should be pushed in +x, got fx=%f", f[1][0])
	}
	// Newton's third law.
	sum := f[0].Add(f[1])
	if sum.Norm() > 1e-10 {
		t.Errorf("forces do not cancel: %v", sum)
	}
}

func TestLJRespectsCutoff(t *testing.T) {
	// The pair sits inside the search radius (list has it as a candidate)
	// but beyond r_cut, so it must contribute nothing.
	snap, lj, list := pairSystem(t, 2.8)
	if len(list.Neighbors(0)) != 1 {
		t.Fatalf("expected the pair within the 3.0 search radius, got %d neighbors", len(list.Neighbors(0)))
	}

	f := make([]md.Vec, 2)
	pe, err := lj.Compute(snap, list, f)
	if err != nil {
		t.Fatal(err)
	}
	if pe != 0 || f[0].Norm() != 0 {
		t.Errorf("interaction beyond r_cut leaked: pe=%f f=%v", pe, f[0])
	}
}

func TestLJAgainstPairEnergy(t *testing.T) {
	for _, r := range []float64{0.95, 1.2, 1.8, 2.4} {
		snap, lj, list := pairSystem(t, r)
		f := make([]md.Vec, 2)
		pe, err := lj.Compute(snap, list, f)
		if err != nil {
			t.Fatal(err)
		}
		want := lj.PairEnergy(0, 0, r)
		if math.Abs(pe-want) > 1e-9 {
			t.Errorf("r=%f: energy %f, want %f", r, pe, want)
		}
	}
}

func TestLJBadBuffer(t *testing.T) {
	snap, lj, list := pairSystem(t, 1.0)
	if _, err := lj.Compute(snap, list, make([]md.Vec, 1)); err == nil {
		t.Error("short force buffer accepted")
	}
}
