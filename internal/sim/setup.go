package sim

import (
	"fmt"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/forces"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/nlist"
)

// FromConfig assembles the whole stack described by cfg: lattice, cutoffs,
// exclusions, spatial index, scheduler, LJ field and Langevin stepper.
func FromConfig(cfg *config.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	snap, err := SCLattice(cfg.Lattice.A, cfg.Lattice.N)
	if err != nil {
		return nil, err
	}

	cut := md.NewCutoffs(cfg.NumTypes())
	field := forces.NewLJ(cut)
	for _, p := range cfg.Pairs {
		if err := cut.Set(p.TypeA, p.TypeB, p.RCut); err != nil {
			return nil, err
		}
		if err := field.SetPair(p.TypeA, p.TypeB, p.Epsilon, p.Sigma); err != nil {
			return nil, err
		}
	}

	excl := md.NewExclusions()
	for _, pair := range cfg.Exclusions.Pairs {
		excl.AddPair(pair[0], pair[1])
	}
	excl.ExcludeSameBody(cfg.Exclusions.SameBody)

	idx, err := nlist.New(nlist.Kind(cfg.Index), nlist.Options{CellWidth: cfg.CellWidth})
	if err != nil {
		return nil, err
	}

	// The force kernel accumulates per particle, so it needs to see every
	// pair from both sides.
	if cfg.ListMode == "half" {
		return nil, fmt.Errorf("%w: the step loop requires list_mode full; half lists are for consumers with their own pair convention", md.ErrConfiguration)
	}
	builder := &nlist.Builder{Index: idx, Excl: excl, Mode: nlist.Full}

	sched, err := nlist.NewScheduler(builder, cut, cfg.RBuff, cfg.CheckPeriod)
	if err != nil {
		return nil, err
	}

	vel := integrators.MaxwellVelocities(snap.N(), 1.0, cfg.KT, cfg.Seed)
	var stepper integrators.Stepper
	if cfg.Integrator == "nve" {
		stepper = integrators.NewVelocityVerlet(1.0)
	} else {
		stepper = integrators.NewLangevin(1.0, cfg.Gamma, cfg.KT, cfg.Seed)
	}

	return New(snap, vel, sched, field, stepper, cfg.Dt)
}
