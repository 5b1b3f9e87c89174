package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/md"
)

func freeForces(n int) ForceFunc {
	return func() ([]md.Vec, error) { return make([]md.Vec, n), nil }
}

func TestVerletFreeParticleDrift(t *testing.T) {
	pos := []md.Vec{{0, 0, 0}}
	vel := []md.Vec{{1, 2, -1}}
	vv := NewVelocityVerlet(1.0)

	dt := 0.01
	for s := 0; s < 100; s++ {
		if err := vv.Step(pos, vel, dt, freeForces(1)); err != nil {
			t.Fatal(err)
		}
	}

	want := md.Vec{1, 2, -1}.Scale(1.0)
	if pos[0].Sub(want).Norm() > 1e-10 {
		t.Errorf("free particle at %v after t=1, want %v", pos[0], want)
	}
	if vel[0].Sub(md.Vec{1, 2, -1}).Norm() > 1e-12 {
		t.Errorf("free particle velocity changed: %v", vel[0])
	}
}

func TestVerletHarmonicEnergyConservation(t *testing.T) {
	// Unit harmonic oscillator along x; velocity Verlet should hold the
	// energy to O(dt^2) over many periods.
	pos := []md.Vec{{1, 0, 0}}
	vel := []md.Vec{{0, 0, 0}}
	vv := NewVelocityVerlet(1.0)
	eval := func() ([]md.Vec, error) {
		return []md.Vec{pos[0].Scale(-1)}, nil
	}

	energy := func() float64 {
		return 0.5*vel[0].Norm2() + 0.5*pos[0].Norm2()
	}

	e0 := energy()
	dt := 0.01
	for s := 0; s < 10000; s++ {
		if err := vv.Step(pos, vel, dt, eval); err != nil {
			t.Fatal(err)
		}
	}
	if drift := math.Abs(energy()-e0) / e0; drift > 1e-3 {
		t.Errorf("energy drift %e over 10k steps", drift)
	}
}

func TestLangevinThermalizes(t *testing.T) {
	n := 500
	pos := make([]md.Vec, n)
	vel := make([]md.Vec, n)
	kT := 0.5
	lg := NewLangevin(1.0, 1.0, kT, 42)

	for s := 0; s < 2000; s++ {
		if err := lg.Step(pos, vel, 0.01, freeForces(n)); err != nil {
			t.Fatal(err)
		}
	}

	// Equipartition: <v^2> = 3 kT / m.
	sum := 0.0
	for i := range vel {
		sum += vel[i].Norm2()
	}
	got := sum / float64(n)
	want := 3 * kT
	if math.Abs(got-want)/want > 0.15 {
		t.Errorf("<v^2> = %f, want %f within 15%%", got, want)
	}
}

func TestLangevinDeterministicPerSeed(t *testing.T) {
	run := func(seed int64) md.Vec {
		pos := make([]md.Vec, 10)
		vel := make([]md.Vec, 10)
		lg := NewLangevin(1.0, 0.5, 0.2, seed)
		for s := 0; s < 50; s++ {
			if err := lg.Step(pos, vel, 0.005, freeForces(10)); err != nil {
				t.Fatal(err)
			}
		}
		return pos[3]
	}

	if run(7) != run(7) {
		t.Error("same seed produced different trajectories")
	}
	if run(7) == run(8) {
		t.Error("different seeds produced identical trajectories")
	}
}

func TestMaxwellVelocities(t *testing.T) {
	vel := MaxwellVelocities(1000, 1.0, 0.2, 42)

	var com md.Vec
	sum := 0.0
	for _, v := range vel {
		com = com.Add(v)
		sum += v.Norm2()
	}
	if com.Norm() > 1e-10 {
		t.Errorf("center-of-mass drift %v", com)
	}
	got := sum / 1000
	if math.Abs(got-0.6)/0.6 > 0.15 {
		t.Errorf("<v^2> = %f, want 0.6 within 15%%", got)
	}
}
