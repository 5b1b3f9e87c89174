package nlist

import "gonum.org/v1/gonum/stat"

// Mode selects how each qualifying pair is recorded.
type Mode int

const (
	// Full records every pair in both directions: j in Neighbors(i) and
	// i in Neighbors(j).
	Full Mode = iota
	// Half records each pair once, under the lower index: Neighbors(i)
	// holds only j > i.
	Half
)

func (m Mode) String() string {
	if m == Half {
		return "half"
	}
	return "full"
}

// List is an immutable neighbor list: for each particle, the indices of the
// particles within the search radius at build time, post-exclusion. Lists
// are rebuilt wholesale and swapped in atomically; they are never patched.
type List struct {
	mode    Mode
	rSearch float64
	nbr     [][]int32
}

// N returns the particle count the list was built for.
func (l *List) N() int { return len(l.nbr) }

func (l *List) Mode() Mode { return l.mode }

// RSearch returns the search radius the list was built with.
func (l *List) RSearch() float64 { return l.rSearch }

// Neighbors returns the neighbor indices of particle i. The slice is owned
// by the list; callers must not modify it.
func (l *List) Neighbors(i int) []int32 { return l.nbr[i] }

// ListStats summarizes per-particle neighbor counts.
type ListStats struct {
	Min, Max int
	Mean     float64
}

func (l *List) Stats() ListStats {
	if len(l.nbr) == 0 {
		return ListStats{}
	}
	counts := make([]float64, len(l.nbr))
	s := ListStats{Min: len(l.nbr[0])}
	for i, nb := range l.nbr {
		counts[i] = float64(len(nb))
		if len(nb) < s.Min {
			s.Min = len(nb)
		}
		if len(nb) > s.Max {
			s.Max = len(nb)
		}
	}
	s.Mean = stat.Mean(counts, nil)
	return s
}
