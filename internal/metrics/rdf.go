package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/nlist"
)

// RDF is a binned radial distribution function g(r).
type RDF struct {
	R []float64 // bin centers
	G []float64
}

// ComputeRDF bins pair distances up to rMax and normalizes against the
// ideal-gas shell density. Pairs are enumerated once through a half-mode
// neighbor list.
func ComputeRDF(snap *md.Snapshot, rMax float64, bins int) (*RDF, error) {
	n := snap.N()
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 particles", md.ErrInvalidArgument)
	}
	if rMax <= 0 || bins < 1 {
		return nil, fmt.Errorf("%w: rMax and bins must be positive", md.ErrInvalidArgument)
	}
	for k := 0; k < 3; k++ {
		if snap.Box.Periodic[k] && rMax > snap.Box.L[k]/2 {
			return nil, fmt.Errorf("%w: rMax %g exceeds half the box edge %g", md.ErrInvalidArgument, rMax, snap.Box.L[k])
		}
	}

	idx, err := nlist.New(nlist.KindCell, nlist.Options{})
	if err != nil {
		return nil, err
	}
	builder := &nlist.Builder{Index: idx, Mode: nlist.Half}
	list, err := builder.Build(snap, rMax)
	if err != nil {
		return nil, err
	}

	dr := rMax / float64(bins)
	counts := make([]float64, bins)
	for i := 0; i < n; i++ {
		for _, j := range list.Neighbors(i) {
			d := math.Sqrt(snap.Box.Distance2(snap.Pos[i], snap.Pos[int(j)]))
			bin := int(d / dr)
			if bin >= bins {
				bin = bins - 1
			}
			counts[bin] += 2 // each half-list pair stands for both directions
		}
	}

	density := float64(n) / snap.Box.Volume()
	out := &RDF{R: make([]float64, bins), G: make([]float64, bins)}
	for b := 0; b < bins; b++ {
		rLo := float64(b) * dr
		rHi := rLo + dr
		shell := 4.0 / 3.0 * math.Pi * (rHi*rHi*rHi - rLo*rLo*rLo)
		ideal := density * shell * float64(n)
		out.R[b] = rLo + dr/2
		if ideal > 0 {
			out.G[b] = counts[b] / ideal
		}
	}
	return out, nil
}
