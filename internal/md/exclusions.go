package md

// Exclusions lists particle pairs that must never appear as neighbors,
// regardless of distance. Static for a given topology. Pairs can be
// excluded individually or through shared rigid-body membership.
type Exclusions struct {
	pairs       map[[2]int]struct{}
	excludeBody bool
}

func NewExclusions() *Exclusions {
	return &Exclusions{pairs: make(map[[2]int]struct{})}
}

// AddPair excludes the (i, j) pair in both directions.
func (e *Exclusions) AddPair(i, j int) {
	if j < i {
		i, j = j, i
	}
	e.pairs[[2]int{i, j}] = struct{}{}
}

// ExcludeSameBody enables exclusion of any pair sharing a body id.
func (e *Exclusions) ExcludeSameBody(on bool) { e.excludeBody = on }

// Excluded reports whether (i, j) must not be neighbors in snap.
func (e *Exclusions) Excluded(snap *Snapshot, i, j int) bool {
	if e == nil {
		return false
	}
	if e.excludeBody {
		if bi := snap.BodyOf(i); bi != NoBody && bi == snap.BodyOf(j) {
			return true
		}
	}
	if len(e.pairs) == 0 {
		return false
	}
	if j < i {
		i, j = j, i
	}
	_, ok := e.pairs[[2]int{i, j}]
	return ok
}

// Len returns the number of explicitly excluded pairs.
func (e *Exclusions) Len() int { return len(e.pairs) }
