// Package integrators advances particle positions and velocities one
// timestep at a time. Steppers work in place on the caller's arrays; the
// eval callback recomputes forces for the current positions, so multi-stage
// schemes can refresh forces mid-step.
package integrators

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/md"
)

// ForceFunc returns per-particle forces for the current positions.
type ForceFunc func() ([]md.Vec, error)

// Stepper advances one timestep of size dt.
type Stepper interface {
	Step(pos, vel []md.Vec, dt float64, eval ForceFunc) error
}

// VelocityVerlet is the standard symplectic two-stage scheme: half kick,
// drift, force refresh, half kick. Forces from the end of one step are
// reused at the start of the next.
type VelocityVerlet struct {
	Mass float64

	prev []md.Vec
}

func NewVelocityVerlet(mass float64) *VelocityVerlet {
	if mass <= 0 {
		mass = 1
	}
	return &VelocityVerlet{Mass: mass}
}

func (v *VelocityVerlet) Step(pos, vel []md.Vec, dt float64, eval ForceFunc) error {
	if len(v.prev) != len(pos) {
		f, err := eval()
		if err != nil {
			return err
		}
		v.prev = append([]md.Vec(nil), f...)
	}

	half := dt / (2 * v.Mass)
	for i := range pos {
		vel[i] = vel[i].Add(v.prev[i].Scale(half))
		pos[i] = pos[i].Add(vel[i].Scale(dt))
	}

	f, err := eval()
	if err != nil {
		return err
	}
	for i := range vel {
		vel[i] = vel[i].Add(f[i].Scale(half))
	}
	copy(v.prev, f)
	return nil
}

// Langevin couples velocity-Verlet to a heat bath at temperature KT with
// friction Gamma: after the drift, velocities are rescaled and kicked with
// Gaussian noise so the system samples the canonical ensemble.
type Langevin struct {
	Mass  float64
	Gamma float64
	KT    float64

	rng  *rand.Rand
	prev []md.Vec
}

func NewLangevin(mass, gamma, kT float64, seed int64) *Langevin {
	if mass <= 0 {
		mass = 1
	}
	return &Langevin{Mass: mass, Gamma: gamma, KT: kT, rng: rand.New(rand.NewSource(seed))}
}

func (l *Langevin) Step(pos, vel []md.Vec, dt float64, eval ForceFunc) error {
	if len(l.prev) != len(pos) {
		f, err := eval()
		if err != nil {
			return err
		}
		l.prev = append([]md.Vec(nil), f...)
	}

	half := dt / (2 * l.Mass)
	for i := range pos {
		vel[i] = vel[i].Add(l.prev[i].Scale(half))
		pos[i] = pos[i].Add(vel[i].Scale(dt))
	}

	// Ornstein-Uhlenbeck velocity refresh.
	c1 := math.Exp(-l.Gamma * dt)
	c2 := math.Sqrt(l.KT / l.Mass * (1 - c1*c1))
	for i := range vel {
		vel[i] = vel[i].Scale(c1).Add(md.Vec{
			c2 * l.rng.NormFloat64(),
			c2 * l.rng.NormFloat64(),
			c2 * l.rng.NormFloat64(),
		})
	}

	f, err := eval()
	if err != nil {
		return err
	}
	for i := range vel {
		vel[i] = vel[i].Add(f[i].Scale(half))
	}
	copy(l.prev, f)
	return nil
}

// Reset discards cached forces, e.g. after positions were replaced.
func (v *VelocityVerlet) Reset() { v.prev = nil }

func (l *Langevin) Reset() { l.prev = nil }

// MaxwellVelocities draws velocities from the Maxwell-Boltzmann
// distribution at temperature kT and removes the center-of-mass drift.
func MaxwellVelocities(n int, mass, kT float64, seed int64) []md.Vec {
	rng := rand.New(rand.NewSource(seed))
	sigma := math.Sqrt(kT / mass)
	vel := make([]md.Vec, n)
	var com md.Vec
	for i := range vel {
		vel[i] = md.Vec{
			sigma * rng.NormFloat64(),
			sigma * rng.NormFloat64(),
			sigma * rng.NormFloat64(),
		}
		com = com.Add(vel[i])
	}
	if n > 0 {
		com = com.Scale(1 / float64(n))
		for i := range vel {
			vel[i] = vel[i].Sub(com)
		}
	}
	return vel
}
