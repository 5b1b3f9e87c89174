package md

import "math"

// Box is an orthorhombic simulation domain with per-axis periodicity.
// Immutable for the lifetime of a run except for rare volume changes, which
// must be followed by an index invalidation.
type Box struct {
	L        Vec
	Periodic [3]bool
}

// NewPeriodicBox returns a fully periodic box with the given edge lengths.
func NewPeriodicBox(lx, ly, lz float64) Box {
	return Box{L: Vec{lx, ly, lz}, Periodic: [3]bool{true, true, true}}
}

// Valid reports whether every edge length is strictly positive.
func (b Box) Valid() bool {
	return b.L[0] > 0 && b.L[1] > 0 && b.L[2] > 0
}

func (b Box) Volume() float64 { return b.L[0] * b.L[1] * b.L[2] }

// Wrap maps p into the primary image [0, L) on each periodic axis.
func (b Box) Wrap(p Vec) Vec {
	for k := 0; k < 3; k++ {
		if !b.Periodic[k] {
			continue
		}
		p[k] -= b.L[k] * math.Floor(p[k]/b.L[k])
	}
	return p
}

// MinImage applies the minimum-image convention to the displacement d,
// folding each periodic component into (-L/2, L/2].
func (b Box) MinImage(d Vec) Vec {
	for k := 0; k < 3; k++ {
		if !b.Periodic[k] {
			continue
		}
		d[k] -= b.L[k] * math.Round(d[k]/b.L[k])
	}
	return d
}

// Distance2 returns the squared minimum-image distance between p and q.
func (b Box) Distance2(p, q Vec) float64 {
	return b.MinImage(p.Sub(q)).Norm2()
}
