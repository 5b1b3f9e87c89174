package nlist

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/md"
)

// StencilIndex is a cell list with a grid resolution chosen independently
// of the search radius. Once per build (and only when the geometry actually
// changed) it precomputes the minimal set of cell offsets whose closest
// possible particle pair could still sit within the search radius; cells
// outside the stencil are provably out of range and never scanned.
//
// Compared to the uniform variant this trims candidate pairs when the
// search radius spans many fine cells, at the cost of recomputing the
// stencil whenever the cell width or search radius changes.
type StencilIndex struct {
	cellWidth float64

	grid    grid
	stencil [][3]int
	key     stencilKey
	built   bool
	snap    *md.Snapshot
}

type stencilKey struct {
	dims    [3]int
	w       [3]float64
	rSearch float64
}

// NewStencilIndex creates the stencil variant with the given cell width.
func NewStencilIndex(cellWidth float64) (*StencilIndex, error) {
	if cellWidth <= 0 {
		return nil, fmt.Errorf("%w: stencil cell width must be positive, got %g", md.ErrConfiguration, cellWidth)
	}
	return &StencilIndex{cellWidth: cellWidth}, nil
}

func (s *StencilIndex) Name() string { return "stencil" }

func (s *StencilIndex) RequiredParams() []string { return []string{"cell_width"} }

func (s *StencilIndex) Occupancy() Occupancy { return s.grid.occupancy() }

func (s *StencilIndex) Build(snap *md.Snapshot, rSearch float64) error {
	if err := validateBuild(snap, rSearch); err != nil {
		return err
	}
	s.grid.bin(snap, s.cellWidth)
	s.snap = snap

	key := stencilKey{dims: s.grid.dims, w: s.grid.w, rSearch: rSearch}
	if key != s.key || s.stencil == nil {
		s.stencil = computeStencil(&s.grid, rSearch)
		s.key = key
	}
	s.built = true
	return nil
}

// computeStencil enumerates cell offsets whose minimum possible
// particle-to-particle distance is within rSearch. On periodic axes the
// offset range is capped at the cell count so every cell is visited at most
// once per axis, and the separation uses the wrapped offset.
func computeStencil(g *grid, rSearch float64) [][3]int {
	var lo, hi [3]int
	for k := 0; k < 3; k++ {
		r := int(math.Ceil(rSearch/g.w[k])) + 1
		if g.box.Periodic[k] && 2*r+1 > g.dims[k] {
			lo[k] = -g.dims[k] / 2
			hi[k] = g.dims[k] - 1 - g.dims[k]/2
		} else {
			lo[k], hi[k] = -r, r
		}
	}

	r2 := rSearch * rSearch
	var st [][3]int
	for dz := lo[2]; dz <= hi[2]; dz++ {
		for dy := lo[1]; dy <= hi[1]; dy++ {
			for dx := lo[0]; dx <= hi[0]; dx++ {
				d := [3]int{dx, dy, dz}
				if minSeparation2(g, d) <= r2 {
					st = append(st, d)
				}
			}
		}
	}
	return st
}

// minSeparation2 returns the squared lower bound on the distance between
// any two points in cells separated by offset d.
func minSeparation2(g *grid, d [3]int) float64 {
	sum := 0.0
	for k := 0; k < 3; k++ {
		n := d[k]
		if n < 0 {
			n = -n
		}
		if g.box.Periodic[k] && g.dims[k]-n < n {
			n = g.dims[k] - n
		}
		if n > 1 {
			s := float64(n-1) * g.w[k]
			sum += s * s
		}
	}
	return sum
}

func (s *StencilIndex) Candidates(i int, visit func(j int)) error {
	if !s.built {
		return errNotBuilt(s.Name())
	}

	g := &s.grid
	home := g.coord(s.snap.Pos[i])

	for _, d := range s.stencil {
		cc, ok := g.shiftFar(home, d)
		if !ok {
			continue
		}
		for _, j := range g.cells[g.cellID(cc)] {
			if int(j) != i {
				visit(int(j))
			}
		}
	}
	return nil
}

// shiftFar is like shift but accepts offsets larger than one cell.
func (g *grid) shiftFar(c, d [3]int) ([3]int, bool) {
	for k := 0; k < 3; k++ {
		c[k] += d[k]
		if g.box.Periodic[k] {
			c[k] = ((c[k] % g.dims[k]) + g.dims[k]) % g.dims[k]
		} else if c[k] < 0 || c[k] >= g.dims[k] {
			return c, false
		}
	}
	return c, true
}
