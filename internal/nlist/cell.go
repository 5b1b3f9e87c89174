package nlist

import (
	"math"

	"github.com/san-kum/mdsim/internal/md"
)

// grid is the binning machinery shared by the uniform and stencil cell
// lists: a regular decomposition of the box with per-cell particle lists.
type grid struct {
	box   md.Box
	dims  [3]int
	w     [3]float64
	cells [][]int32
}

// bin partitions the box into cells of edge length >= target on each axis
// and sorts the particles into them.
func (g *grid) bin(snap *md.Snapshot, target float64) {
	g.box = snap.Box
	ncells := 1
	for k := 0; k < 3; k++ {
		n := int(math.Floor(snap.Box.L[k] / target))
		if n < 1 {
			n = 1
		}
		g.dims[k] = n
		g.w[k] = snap.Box.L[k] / float64(n)
		ncells *= n
	}

	if cap(g.cells) >= ncells {
		g.cells = g.cells[:ncells]
		for c := range g.cells {
			g.cells[c] = g.cells[c][:0]
		}
	} else {
		g.cells = make([][]int32, ncells)
	}

	for i, p := range snap.Pos {
		c := g.cellID(g.coord(p))
		g.cells[c] = append(g.cells[c], int32(i))
	}
}

// coord maps a position to cell coordinates, clamping anything that sits
// outside the primary image on a non-periodic axis.
func (g *grid) coord(p md.Vec) [3]int {
	p = g.box.Wrap(p)
	var c [3]int
	for k := 0; k < 3; k++ {
		c[k] = int(p[k] / g.w[k])
		if c[k] >= g.dims[k] {
			c[k] = g.dims[k] - 1
		}
		if c[k] < 0 {
			c[k] = 0
		}
	}
	return c
}

func (g *grid) cellID(c [3]int) int {
	return (c[2]*g.dims[1]+c[1])*g.dims[0] + c[0]
}

func (g *grid) occupancy() Occupancy {
	o := Occupancy{Buckets: len(g.cells)}
	total := 0
	for _, cell := range g.cells {
		total += len(cell)
		if len(cell) > o.Max {
			o.Max = len(cell)
		}
	}
	if o.Buckets > 0 {
		o.Mean = float64(total) / float64(o.Buckets)
	}
	return o
}

// CellIndex is the uniform cell list: cubic-ish cells with edge length at
// least the search radius, so every qualifying pair sits in the same or an
// adjacent cell. Build is O(N); a query scans up to 27 cells.
type CellIndex struct {
	grid  grid
	built bool
	snap  *md.Snapshot
}

func NewCellIndex() *CellIndex { return &CellIndex{} }

func (c *CellIndex) Name() string { return "cell" }

func (c *CellIndex) RequiredParams() []string { return nil }

func (c *CellIndex) Build(snap *md.Snapshot, rSearch float64) error {
	if err := validateBuild(snap, rSearch); err != nil {
		return err
	}
	c.grid.bin(snap, rSearch)
	c.snap = snap
	c.built = true
	return nil
}

func (c *CellIndex) Occupancy() Occupancy { return c.grid.occupancy() }

func (c *CellIndex) Candidates(i int, visit func(j int)) error {
	if !c.built {
		return errNotBuilt(c.Name())
	}

	g := &c.grid
	home := g.coord(c.snap.Pos[i])

	// On axes with fewer than 3 cells, distinct offsets alias the same
	// cell. Track visited cell ids so each cell is scanned once; the
	// builder still guards against duplicate particles.
	var seen [27]int
	nseen := 0

	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				cc, ok := g.shift(home, [3]int{dx, dy, dz})
				if !ok {
					continue
				}
				id := g.cellID(cc)
				dup := false
				for s := 0; s < nseen; s++ {
					if seen[s] == id {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
				seen[nseen] = id
				nseen++

				for _, j := range g.cells[id] {
					if int(j) != i {
						visit(int(j))
					}
				}
			}
		}
	}
	return nil
}

// shift offsets cell coordinates, wrapping periodic axes and rejecting
// out-of-range coordinates on open ones.
func (g *grid) shift(c, d [3]int) ([3]int, bool) {
	for k := 0; k < 3; k++ {
		c[k] += d[k]
		if g.box.Periodic[k] {
			if c[k] < 0 {
				c[k] += g.dims[k]
			} else if c[k] >= g.dims[k] {
				c[k] -= g.dims[k]
			}
		} else if c[k] < 0 || c[k] >= g.dims[k] {
			return c, false
		}
	}
	return c, true
}
