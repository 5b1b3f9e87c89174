package nlist

import (
	"fmt"

	"github.com/san-kum/mdsim/internal/md"
)

// Index is a rebuildable spatial structure answering cutoff-radius
// candidate queries. Build must be called before Candidates; after a
// successful Build, every particle pair within the search radius appears in
// some examined bucket pair.
type Index interface {
	Name() string

	// Build indexes the snapshot for queries at the given search radius.
	// Fails with md.ErrConfiguration if rSearch <= 0 or the box is
	// degenerate; no partial state is committed.
	Build(snap *md.Snapshot, rSearch float64) error

	// Candidates visits a superset of the particles within the search
	// radius of particle i. The visit order is unspecified; j == i is never
	// reported, duplicates may be. Fails with md.ErrIndexQuery when an
	// internal traversal invariant is violated.
	Candidates(i int, visit func(j int)) error

	// Occupancy reports bucket statistics for the last build.
	Occupancy() Occupancy

	// RequiredParams names the configuration options the variant needs
	// beyond the search radius.
	RequiredParams() []string
}

// Occupancy summarizes how particles are distributed over the index's
// buckets (grid cells or tree leaves).
type Occupancy struct {
	Buckets int
	Max     int
	Mean    float64
}

// Kind selects an index variant.
type Kind string

const (
	KindCell    Kind = "cell"
	KindStencil Kind = "stencil"
	KindTree    Kind = "tree"
)

// Options carries variant-specific parameters.
type Options struct {
	// CellWidth sets the stencil variant's grid resolution, independent of
	// the search radius. Required for KindStencil.
	CellWidth float64

	// LeafSize caps particles per tree leaf. Zero means the default.
	LeafSize int
}

// New constructs an index of the given kind. Selection happens once at
// configuration time; queries never dispatch on kind.
func New(kind Kind, opts Options) (Index, error) {
	switch kind {
	case KindCell:
		return NewCellIndex(), nil
	case KindStencil:
		return NewStencilIndex(opts.CellWidth)
	case KindTree:
		return NewTreeIndex(opts.LeafSize), nil
	default:
		return nil, fmt.Errorf("%w: unknown index kind %q", md.ErrConfiguration, kind)
	}
}

func errNotBuilt(name string) error {
	return fmt.Errorf("%w: %s index queried before build", md.ErrIndexQuery, name)
}

func validateBuild(snap *md.Snapshot, rSearch float64) error {
	if rSearch <= 0 {
		return fmt.Errorf("%w: search radius must be positive, got %g", md.ErrConfiguration, rSearch)
	}
	if !snap.Box.Valid() {
		return fmt.Errorf("%w: degenerate box %v", md.ErrConfiguration, snap.Box.L)
	}
	return nil
}
