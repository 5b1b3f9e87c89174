// Package nlist implements the neighbor-list subsystem: spatial indexes for
// candidate-pair discovery, the list builder, and the rebuild scheduler that
// decides when particle motion has invalidated the current list.
//
// Three interchangeable [Index] variants are provided:
//
//   - [CellIndex]: uniform grid, cell edge >= the search radius
//   - [StencilIndex]: finer grid with a precomputed cell-offset stencil
//   - [TreeIndex]: AABB hierarchy, best for non-uniform density or
//     heterogeneous cutoffs
//
// The variant is a configuration-time choice made through [New]; all of them
// satisfy the same contract: candidates are a superset of the true neighbor
// pairs (false positives are filtered by the [Builder], false negatives are
// a correctness bug).
//
// The [Scheduler] owns the published list behind an atomic pointer, so a
// force evaluator reading neighbors never observes a partially built list.
// A rebuild is synchronous: the step loop blocks until the swap completes.
package nlist
