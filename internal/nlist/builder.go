package nlist

import (
	"sync"

	"github.com/san-kum/mdsim/internal/md"
)

// Builder turns the spatial index's candidate pairs into the final neighbor
// list: candidates are kept when their minimum-image distance is within the
// search radius and the pair is not excluded. The per-particle scan runs in
// parallel; every worker writes only to the rows of its own particle range.
type Builder struct {
	Index Index
	Excl  *md.Exclusions
	Mode  Mode
}

const buildChunk = 64

// Build re-indexes the snapshot and produces a fresh list.
func (b *Builder) Build(snap *md.Snapshot, rSearch float64) (*List, error) {
	if err := b.Index.Build(snap, rSearch); err != nil {
		return nil, err
	}

	n := snap.N()
	list := &List{mode: b.Mode, rSearch: rSearch, nbr: make([][]int32, n)}
	r2 := rSearch * rSearch

	var mu sync.Mutex
	var firstErr error

	md.ParallelFor(n, buildChunk, func(start, end int) {
		// Stamp array dedups candidates the index reported more than once
		// (periodic images, aliased cells).
		stamp := make([]int32, n)
		for s := range stamp {
			stamp[s] = -1
		}

		for i := start; i < end; i++ {
			var row []int32
			err := b.Index.Candidates(i, func(j int) {
				if stamp[j] == int32(i) {
					return
				}
				stamp[j] = int32(i)

				if b.Mode == Half && j < i {
					return
				}
				if snap.Box.Distance2(snap.Pos[i], snap.Pos[j]) > r2 {
					return
				}
				if b.Excl.Excluded(snap, i, j) {
					return
				}
				row = append(row, int32(j))
			})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			list.nbr[i] = row
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return list, nil
}
