package nlist

import (
	"fmt"
	"sort"

	"github.com/san-kum/mdsim/internal/md"
)

const defaultLeafSize = 8

// TreeIndex is a binary AABB hierarchy over the particles. Nodes split
// their particle range at the median of the longest box axis; queries walk
// the tree top-down, pruning subtrees whose bounds cannot contain a point
// within the search radius. Build is O(N log N).
//
// The tree pays no penalty for empty space or for a search radius much
// smaller than the box, which makes it the right choice for strongly
// non-uniform density or widely varying per-type cutoffs, where a fixed
// grid sizes every cell for the largest cutoff.
//
// Periodic boundaries are handled by re-running the traversal from each
// periodic image of the query point that could reach the primary box; the
// root bound rejects images that cannot.
type TreeIndex struct {
	leafSize int

	snap    *md.Snapshot
	rSearch float64
	nodes   []treeNode
	order   []int32 // particle ids, contiguous per leaf
	built   bool
}

type treeNode struct {
	lo, hi md.Vec
	// Leaf when right < 0: start/count index into order. Internal nodes
	// store child node ids in start (left) and right.
	start, count int32
	right        int32
}

func NewTreeIndex(leafSize int) *TreeIndex {
	if leafSize <= 0 {
		leafSize = defaultLeafSize
	}
	return &TreeIndex{leafSize: leafSize}
}

func (t *TreeIndex) Name() string { return "tree" }

func (t *TreeIndex) RequiredParams() []string { return nil }

func (t *TreeIndex) Build(snap *md.Snapshot, rSearch float64) error {
	if err := validateBuild(snap, rSearch); err != nil {
		return err
	}

	n := snap.N()
	t.snap = snap
	t.rSearch = rSearch
	t.nodes = t.nodes[:0]
	t.order = t.order[:0]
	for i := 0; i < n; i++ {
		t.order = append(t.order, int32(i))
	}
	t.built = true
	if n == 0 {
		return nil
	}
	t.buildRange(0, n)
	return nil
}

// buildRange creates the node covering order[start:end) and returns its id.
func (t *TreeIndex) buildRange(start, end int) int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{})

	lo, hi := t.bounds(start, end)

	if end-start <= t.leafSize {
		t.nodes[id] = treeNode{lo: lo, hi: hi, start: int32(start), count: int32(end - start), right: -1}
		return id
	}

	axis := 0
	if hi[1]-lo[1] > hi[axis]-lo[axis] {
		axis = 1
	}
	if hi[2]-lo[2] > hi[axis]-lo[axis] {
		axis = 2
	}

	seg := t.order[start:end]
	sort.Slice(seg, func(a, b int) bool {
		return t.snap.Pos[seg[a]][axis] < t.snap.Pos[seg[b]][axis]
	})
	mid := start + (end-start)/2

	left := t.buildRange(start, mid)
	right := t.buildRange(mid, end)
	t.nodes[id] = treeNode{lo: lo, hi: hi, start: left, right: right}
	return id
}

func (t *TreeIndex) bounds(start, end int) (lo, hi md.Vec) {
	p := t.snap.Pos[t.order[start]]
	lo, hi = p, p
	for _, j := range t.order[start+1 : end] {
		q := t.snap.Pos[j]
		for k := 0; k < 3; k++ {
			if q[k] < lo[k] {
				lo[k] = q[k]
			}
			if q[k] > hi[k] {
				hi[k] = q[k]
			}
		}
	}
	return lo, hi
}

func (t *TreeIndex) Occupancy() Occupancy {
	o := Occupancy{}
	total := 0
	for _, n := range t.nodes {
		if n.right < 0 {
			o.Buckets++
			total += int(n.count)
			if int(n.count) > o.Max {
				o.Max = int(n.count)
			}
		}
	}
	if o.Buckets > 0 {
		o.Mean = float64(total) / float64(o.Buckets)
	}
	return o
}

func (t *TreeIndex) Candidates(i int, visit func(j int)) error {
	if !t.built {
		return errNotBuilt(t.Name())
	}
	if len(t.nodes) == 0 {
		return nil
	}

	box := t.snap.Box
	r2 := t.rSearch * t.rSearch

	// Periodic images of the query point. The root prune discards images
	// that cannot reach any particle, so enumerating all shifts is cheap.
	var shifts [3][]float64
	for k := 0; k < 3; k++ {
		if box.Periodic[k] {
			shifts[k] = []float64{0, -box.L[k], box.L[k]}
		} else {
			shifts[k] = []float64{0}
		}
	}

	p := t.snap.Pos[i]
	for _, sx := range shifts[0] {
		for _, sy := range shifts[1] {
			for _, sz := range shifts[2] {
				q := md.Vec{p[0] + sx, p[1] + sy, p[2] + sz}
				if err := t.query(q, r2, i, visit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (t *TreeIndex) query(q md.Vec, r2 float64, self int, visit func(j int)) error {
	// Explicit stack; depth can never exceed the node count, so anything
	// deeper means the child links form a cycle.
	stack := make([]int32, 0, 64)
	stack = append(stack, 0)
	steps := 0

	for len(stack) > 0 {
		steps++
		if steps > 2*len(t.nodes)+1 {
			return fmt.Errorf("%w: tree traversal exceeded node count (cycle in hierarchy)", md.ErrIndexQuery)
		}

		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if int(id) >= len(t.nodes) {
			return fmt.Errorf("%w: node id %d out of range", md.ErrIndexQuery, id)
		}
		n := &t.nodes[id]

		if aabbDist2(q, n.lo, n.hi) > r2 {
			continue
		}

		if n.right < 0 {
			for _, j := range t.order[n.start : n.start+n.count] {
				if int(j) != self {
					visit(int(j))
				}
			}
			continue
		}
		stack = append(stack, n.start, n.right)
	}
	return nil
}

// aabbDist2 returns the squared distance from q to the box [lo, hi].
func aabbDist2(q, lo, hi md.Vec) float64 {
	sum := 0.0
	for k := 0; k < 3; k++ {
		if d := lo[k] - q[k]; d > 0 {
			sum += d * d
		} else if d := q[k] - hi[k]; d > 0 {
			sum += d * d
		}
	}
	return sum
}
