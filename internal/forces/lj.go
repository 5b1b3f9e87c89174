// Package forces evaluates pair potentials over a neighbor list. It is the
// consumer side of the neighbor subsystem: lists are read between rebuilds,
// never mutated here.
package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/md"
)

// NeighborSource yields the current neighbors of a particle. Satisfied by
// *nlist.List and *nlist.Scheduler. Lists must be in full mode so each
// particle sees all of its partners.
type NeighborSource interface {
	Neighbors(i int) []int32
}

// LJ is the truncated Lennard-Jones potential
//
//	u(r) = 4*eps*[(sig/r)^12 - (sig/r)^6],  r <= r_cut
//
// with per-type-pair eps, sigma and cutoff. The neighbor list is built out
// to r_cut plus the buffer, so every interaction is filtered against the
// true pair cutoff here.
type LJ struct {
	cut    *md.Cutoffs
	ntypes int
	eps    []float64
	sig    []float64
}

// NewLJ creates an LJ field sharing the cutoff matrix with the neighbor
// scheduler.
func NewLJ(cut *md.Cutoffs) *LJ {
	n := cut.NumTypes()
	return &LJ{cut: cut, ntypes: n, eps: make([]float64, n*n), sig: make([]float64, n*n)}
}

// SetPair assigns symmetric eps and sigma for the (a, b) type pair.
func (l *LJ) SetPair(a, b int, eps, sigma float64) error {
	if a < 0 || a >= l.ntypes || b < 0 || b >= l.ntypes {
		return fmt.Errorf("%w: type pair (%d,%d) out of range [0,%d)", md.ErrConfiguration, a, b, l.ntypes)
	}
	if sigma <= 0 {
		return fmt.Errorf("%w: sigma must be positive, got %g", md.ErrConfiguration, sigma)
	}
	l.eps[a*l.ntypes+b], l.eps[b*l.ntypes+a] = eps, eps
	l.sig[a*l.ntypes+b], l.sig[b*l.ntypes+a] = sigma, sigma
	return nil
}

const forceChunk = 32

// Compute fills f with per-particle forces and returns the total potential
// energy. Each particle accumulates only its own row, so the loop is
// parallel over particles; pair energy is halved since a full list reports
// every pair twice.
func (l *LJ) Compute(snap *md.Snapshot, nbr NeighborSource, f []md.Vec) (float64, error) {
	n := snap.N()
	if len(f) != n {
		return 0, fmt.Errorf("%w: force buffer length %d for %d particles", md.ErrInvalidArgument, len(f), n)
	}

	partials := make([]float64, n)
	md.ParallelFor(n, forceChunk, func(start, end int) {
		for i := start; i < end; i++ {
			ti := snap.TypeOf(i)
			var force md.Vec
			pe := 0.0

			for _, j32 := range nbr.Neighbors(i) {
				j := int(j32)
				tj := snap.TypeOf(j)

				rcut := l.cut.Get(ti, tj)
				if rcut <= 0 {
					continue
				}

				d := snap.Box.MinImage(snap.Pos[i].Sub(snap.Pos[j]))
				r2 := d.Norm2()
				if r2 > rcut*rcut || r2 == 0 {
					continue
				}

				eps := l.eps[ti*l.ntypes+tj]
				sig := l.sig[ti*l.ntypes+tj]
				s2 := sig * sig / r2
				s6 := s2 * s2 * s2
				s12 := s6 * s6

				pe += 0.5 * 4 * eps * (s12 - s6)
				// f(r)/r, positive when repulsive.
				fr := 24 * eps * (2*s12 - s6) / r2
				force = force.Add(d.Scale(fr))
			}

			f[i] = force
			partials[i] = pe
		}
	})

	total := 0.0
	for _, p := range partials {
		total += p
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return total, fmt.Errorf("potential energy diverged (overlapping particles?)")
	}
	return total, nil
}

// PairEnergy returns u(r) for a single (a, b) pair at distance r, zero
// beyond the cutoff. Used by tests and diagnostics.
func (l *LJ) PairEnergy(a, b int, r float64) float64 {
	rcut := l.cut.Get(a, b)
	if rcut <= 0 || r > rcut || r <= 0 {
		return 0
	}
	sig := l.sig[a*l.ntypes+b]
	s6 := math.Pow(sig*sig/(r*r), 3)
	return 4 * l.eps[a*l.ntypes+b] * (s6*s6 - s6)
}
