// Package sim drives the simulation step loop that the neighbor subsystem
// serves: scheduler check, force evaluation over the published list,
// integration, displacement accounting. It also implements the benchmark
// surface the autotuner sweeps over.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/mdsim/internal/forces"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/nlist"
)

// StepInfo is handed to observers after every completed step.
type StepInfo struct {
	Step      int64
	Time      float64
	Potential float64
	Kinetic   float64
	Rebuilt   bool
}

// Observer is notified once per completed step.
type Observer interface {
	OnStep(info StepInfo)
}

// Simulator owns the mutable particle state and sequences one step:
//
//  1. the scheduler examines displacement and rebuilds the list if stale
//  2. the stepper advances positions/velocities, re-evaluating forces
//     against the step-start list (the buffer absorbs intra-step motion)
//  3. the step's motion is folded into the displacement tracker
//
// The neighbor list is never read outside the window between rebuild
// completion and the next staleness transition.
type Simulator struct {
	snap    *md.Snapshot
	vel     []md.Vec
	sched   *nlist.Scheduler
	field   *forces.LJ
	stepper integrators.Stepper
	dt      float64

	observers []Observer

	prev      []md.Vec
	fbuf      []md.Vec
	potential float64
	steps     int64
}

// New assembles a simulator. The snapshot is owned by the simulator from
// here on; the scheduler and field must share the same cutoff matrix.
func New(snap *md.Snapshot, vel []md.Vec, sched *nlist.Scheduler, field *forces.LJ, stepper integrators.Stepper, dt float64) (*Simulator, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", md.ErrConfiguration, dt)
	}
	if len(vel) != snap.N() {
		return nil, fmt.Errorf("%w: %d velocities for %d particles", md.ErrConfiguration, len(vel), snap.N())
	}
	return &Simulator{
		snap:    snap,
		vel:     vel,
		sched:   sched,
		field:   field,
		stepper: stepper,
		dt:      dt,
		prev:    make([]md.Vec, snap.N()),
		fbuf:    make([]md.Vec, snap.N()),
	}, nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Snapshot() *md.Snapshot { return s.snap }

func (s *Simulator) Scheduler() *nlist.Scheduler { return s.sched }

func (s *Simulator) Steps() int64 { return s.steps }

func (s *Simulator) Dt() float64 { return s.dt }

// PotentialEnergy returns the value from the most recent force evaluation.
func (s *Simulator) PotentialEnergy() float64 { return s.potential }

func (s *Simulator) KineticEnergy() float64 {
	ke := 0.0
	for i := range s.vel {
		ke += 0.5 * s.vel[i].Norm2()
	}
	return ke
}

// Temperature returns the instantaneous kinetic temperature.
func (s *Simulator) Temperature() float64 {
	n := s.snap.N()
	if n == 0 {
		return 0
	}
	return 2 * s.KineticEnergy() / (3 * float64(n))
}

func (s *Simulator) eval() ([]md.Vec, error) {
	pe, err := s.field.Compute(s.snap, s.sched, s.fbuf)
	if err != nil {
		return nil, err
	}
	s.potential = pe
	return s.fbuf, nil
}

// Run advances n steps, checking for cancellation between steps. A rebuild
// blocks the step that triggered it; the step proceeds once the fresh list
// is published.
func (s *Simulator) Run(ctx context.Context, n int) error {
	for k := 0; k < n; k++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rebuilt, err := s.sched.Step(s.snap)
		if err != nil {
			return err
		}

		copy(s.prev, s.snap.Pos)
		if err := s.stepper.Step(s.snap.Pos, s.vel, s.dt, s.eval); err != nil {
			return fmt.Errorf("step %d: %w", s.steps+1, err)
		}
		for i := range s.snap.Pos {
			s.snap.Pos[i] = s.snap.Box.Wrap(s.snap.Pos[i])
		}
		if err := s.sched.RecordMotion(s.snap.Box, s.prev, s.snap.Pos); err != nil {
			return err
		}

		s.steps++
		if len(s.observers) > 0 {
			info := StepInfo{
				Step:      s.steps,
				Time:      float64(s.steps) * s.dt,
				Potential: s.potential,
				Kinetic:   s.KineticEnergy(),
				Rebuilt:   rebuilt,
			}
			for _, o := range s.observers {
				o.OnStep(info)
			}
		}
	}
	return nil
}

// RunTimed advances n steps and returns the measured throughput in steps
// per second.
func (s *Simulator) RunTimed(ctx context.Context, n int) (float64, error) {
	start := time.Now()
	if err := s.Run(ctx, n); err != nil {
		return 0, err
	}
	return float64(n) / time.Since(start).Seconds(), nil
}

// SetRBuff, SetCheckPeriod and PopStats delegate to the scheduler; together
// with Run they satisfy the tuner's benchmark surface.

func (s *Simulator) SetRBuff(r float64) error { return s.sched.SetRBuff(r) }

func (s *Simulator) SetCheckPeriod(p int) error { return s.sched.SetCheckPeriod(p) }

func (s *Simulator) PopStats() nlist.Stats { return s.sched.PopStats() }
