package nlist

import (
	"fmt"
	"sync/atomic"

	"github.com/san-kum/mdsim/internal/md"
)

// State is the scheduler's lifecycle state.
type State int

const (
	// Fresh: the published list is valid for reads.
	Fresh State = iota
	// Stale: particle motion may have invalidated the list; the next Step
	// rebuilds before returning.
	Stale
	// Rebuilding: a synchronous rebuild is in flight.
	Rebuilding
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Rebuilding:
		return "rebuilding"
	}
	return "unknown"
}

// Stats accumulates rebuild accounting between queries. Pop-style: reading
// them through Scheduler.PopStats resets the counters.
type Stats struct {
	NormalRebuilds  int
	ForcedRebuilds  int
	DangerousBuilds int
	Intervals       []int // steps between consecutive rebuilds
	Neighbors       ListStats
	Occupancy       Occupancy
}

// MinInterval returns the shortest observed rebuild interval, or fallback
// when no rebuild happened in the window.
func (s Stats) MinInterval(fallback int) int {
	min := fallback
	for _, iv := range s.Intervals {
		if iv < min {
			min = iv
		}
	}
	if min < 1 {
		min = 1
	}
	return min
}

// Scheduler decides, once per step, whether the neighbor list must be
// rebuilt. It tracks per-particle displacement accumulated since the last
// rebuild and only inspects it every CheckPeriod steps; between checks the
// buffer radius absorbs the motion.
//
// Staleness test: with d1 and d2 the two largest accumulated displacements,
// no pair can have entered the cutoff undetected while d1+d2 <= r_buff. The
// scheduler marks the list stale once d1+d2 exceeds r_buff/2, keeping a
// full check interval of margin in hand. If a check finds d1+d2 already
// beyond r_buff, the buffer was exhausted before the check ran: the steps
// since then may have used a list with a silently missing pair. That build
// is counted as dangerous and reported through Stats. It is a tuning
// signal (check_period too long or r_buff too small), not an error.
//
// The published list sits behind an atomic pointer: a rebuild assembles the
// new list off to the side and swaps it in whole, so concurrent readers of
// Current never observe a partial list. Displacements reset only after the
// swap, keeping the tracker handoff atomic with rebuild completion.
type Scheduler struct {
	builder *Builder
	cut     *md.Cutoffs

	rBuff       float64
	checkPeriod int

	state State
	list  atomic.Pointer[List]

	disp        []md.Vec
	step        int64
	lastRebuild int64
	forced      bool
	hasList     bool

	stats Stats
}

// NewScheduler validates the buffering parameters and prepares a scheduler.
// The first call to Step performs the initial build.
func NewScheduler(b *Builder, cut *md.Cutoffs, rBuff float64, checkPeriod int) (*Scheduler, error) {
	if rBuff < 0 {
		return nil, fmt.Errorf("%w: r_buff must be non-negative, got %g", md.ErrConfiguration, rBuff)
	}
	if checkPeriod < 1 {
		return nil, fmt.Errorf("%w: check_period must be at least 1, got %d", md.ErrConfiguration, checkPeriod)
	}
	if cut.Max() <= 0 {
		return nil, fmt.Errorf("%w: no positive r_cut configured", md.ErrConfiguration)
	}
	return &Scheduler{builder: b, cut: cut, rBuff: rBuff, checkPeriod: checkPeriod}, nil
}

// RSearch returns max(r_cut) + r_buff.
func (s *Scheduler) RSearch() float64 { return s.cut.Max() + s.rBuff }

func (s *Scheduler) RBuff() float64 { return s.rBuff }

func (s *Scheduler) CheckPeriod() int { return s.checkPeriod }

func (s *Scheduler) State() State { return s.state }

// SetRBuff changes the buffer radius and forces a rebuild on the next step.
func (s *Scheduler) SetRBuff(r float64) error {
	if r < 0 {
		return fmt.Errorf("%w: r_buff must be non-negative, got %g", md.ErrConfiguration, r)
	}
	s.rBuff = r
	s.Invalidate()
	return nil
}

// SetCheckPeriod changes the displacement check cadence.
func (s *Scheduler) SetCheckPeriod(p int) error {
	if p < 1 {
		return fmt.Errorf("%w: check_period must be at least 1, got %d", md.ErrConfiguration, p)
	}
	s.checkPeriod = p
	return nil
}

// Invalidate marks the list stale regardless of displacement. Callers must
// invoke it after box volume changes, topology changes, or any other event
// the displacement test cannot see. The rebuild counts as forced.
func (s *Scheduler) Invalidate() {
	s.state = Stale
	s.forced = true
}

// Current returns the published list, or nil before the first build. Safe
// to call from readers while the owning loop advances.
func (s *Scheduler) Current() *List { return s.list.Load() }

// Neighbors returns the neighbor indices of particle i from the published
// list. Valid only between rebuild completion and the next staleness
// transition.
func (s *Scheduler) Neighbors(i int) []int32 { return s.list.Load().Neighbors(i) }

// RecordMotion folds one step of position change into the displacement
// tracker. prev and cur hold positions before and after the step; the
// difference is taken per particle with the minimum image so boundary wraps
// do not register as teleports.
func (s *Scheduler) RecordMotion(box md.Box, prev, cur []md.Vec) error {
	if len(prev) != len(cur) {
		return fmt.Errorf("%w: position slices differ in length (%d vs %d)", md.ErrInvalidArgument, len(prev), len(cur))
	}
	if len(s.disp) != len(cur) {
		s.disp = make([]md.Vec, len(cur))
	}
	for i := range cur {
		s.disp[i] = s.disp[i].Add(box.MinImage(cur[i].Sub(prev[i])))
	}
	return nil
}

// Step advances the scheduler by one simulation step and rebuilds the list
// if required. The rebuild is synchronous: when Step returns, the published
// list is valid for the caller's step. Returns whether a rebuild happened.
func (s *Scheduler) Step(snap *md.Snapshot) (bool, error) {
	s.step++

	if !s.hasList {
		return true, s.rebuild(snap, false)
	}

	if s.state == Fresh && s.step%int64(s.checkPeriod) == 0 {
		d1, d2 := s.topTwoDisplacements()
		if d1+d2 > s.rBuff/2 {
			s.state = Stale
			if d1+d2 > s.rBuff {
				s.stats.DangerousBuilds++
			}
		}
	}

	if s.state == Stale {
		forced := s.forced
		s.forced = false
		return true, s.rebuild(snap, forced)
	}
	return false, nil
}

func (s *Scheduler) rebuild(snap *md.Snapshot, forced bool) error {
	s.state = Rebuilding

	list, err := s.builder.Build(snap, s.RSearch())
	if err != nil {
		s.state = Stale
		return err
	}
	s.list.Store(list)

	if s.hasList {
		s.stats.Intervals = append(s.stats.Intervals, int(s.step-s.lastRebuild))
		if forced {
			s.stats.ForcedRebuilds++
		} else {
			s.stats.NormalRebuilds++
		}
	}
	s.lastRebuild = s.step
	s.hasList = true

	// Reset displacements only now that the swap is complete.
	if len(s.disp) != snap.N() {
		s.disp = make([]md.Vec, snap.N())
	} else {
		for i := range s.disp {
			s.disp[i] = md.Vec{}
		}
	}

	s.state = Fresh
	return nil
}

func (s *Scheduler) topTwoDisplacements() (d1, d2 float64) {
	for i := range s.disp {
		d := s.disp[i].Norm()
		if d > d1 {
			d1, d2 = d, d1
		} else if d > d2 {
			d2 = d
		}
	}
	return d1, d2
}

// PopStats returns the rebuild statistics accumulated since the previous
// call and resets the window. Neighbor and occupancy figures describe the
// currently published list.
func (s *Scheduler) PopStats() Stats {
	out := s.stats
	s.stats = Stats{}
	if l := s.list.Load(); l != nil {
		out.Neighbors = l.Stats()
	}
	out.Occupancy = s.builder.Index.Occupancy()
	return out
}
