// Package metrics collects run observables: energy drift over a
// trajectory and structural quantities computed from the neighbor list.
package metrics

import (
	"math"

	"github.com/san-kum/mdsim/internal/sim"
)

// EnergyDrift watches total energy over the step stream and reports the
// largest relative deviation from the first sample. Useful for validating
// conservative runs; thermostatted runs exchange energy with the bath and
// will show large values.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnStep(info sim.StepInfo) {
	energy := info.Potential + info.Kinetic

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
