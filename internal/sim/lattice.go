package sim

import (
	"fmt"

	"github.com/san-kum/mdsim/internal/md"
)

// SCLattice places n^3 particles on a simple cubic lattice with spacing a
// in a fully periodic box of edge n*a. The standard way to start a dense
// system without overlaps.
func SCLattice(a float64, n int) (*md.Snapshot, error) {
	if a <= 0 || n < 1 {
		return nil, fmt.Errorf("%w: lattice needs positive spacing and cell count, got a=%g n=%d", md.ErrConfiguration, a, n)
	}

	pos := make([]md.Vec, 0, n*n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				pos = append(pos, md.Vec{
					(float64(x) + 0.5) * a,
					(float64(y) + 0.5) * a,
					(float64(z) + 0.5) * a,
				})
			}
		}
	}

	l := float64(n) * a
	return &md.Snapshot{Pos: pos, Box: md.NewPeriodicBox(l, l, l)}, nil
}
