package md

import "fmt"

// Cutoffs holds the symmetric (type, type) -> r_cut matrix. The maximum
// entry plus the buffer radius defines the search radius used by the
// spatial index.
type Cutoffs struct {
	ntypes int
	r      []float64
}

// NewCutoffs creates a cutoff matrix for ntypes species with all entries
// unset (zero).
func NewCutoffs(ntypes int) *Cutoffs {
	return &Cutoffs{ntypes: ntypes, r: make([]float64, ntypes*ntypes)}
}

func (c *Cutoffs) NumTypes() int { return c.ntypes }

// Set assigns r_cut for the (a, b) pair; symmetry is enforced by setting
// (b, a) as well.
func (c *Cutoffs) Set(a, b int, rcut float64) error {
	if a < 0 || a >= c.ntypes || b < 0 || b >= c.ntypes {
		return fmt.Errorf("%w: type pair (%d,%d) out of range [0,%d)", ErrConfiguration, a, b, c.ntypes)
	}
	if rcut <= 0 {
		return fmt.Errorf("%w: r_cut must be positive, got %g", ErrConfiguration, rcut)
	}
	c.r[a*c.ntypes+b] = rcut
	c.r[b*c.ntypes+a] = rcut
	return nil
}

// Get returns r_cut for the (a, b) pair, or 0 if unset.
func (c *Cutoffs) Get(a, b int) float64 {
	return c.r[a*c.ntypes+b]
}

// Max returns the largest cutoff in the matrix.
func (c *Cutoffs) Max() float64 {
	max := 0.0
	for _, v := range c.r {
		if v > max {
			max = v
		}
	}
	return max
}
