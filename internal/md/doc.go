// Package md provides the core primitives shared by the neighbor-search
// subsystem and the step loop:
//
//   - [Vec]: 3-component position/displacement vector
//   - [Box]: periodic orthorhombic simulation domain
//   - [Snapshot]: read-only view of particle state handed into subsystem calls
//   - [Cutoffs]: symmetric per-type-pair interaction cutoffs
//   - [Exclusions]: pairs that must never appear as neighbors
//
// All subsystem entry points take a *Snapshot rather than reaching into
// shared state, so callers control exactly what the subsystem can observe.
//
// # Thread Safety
//
// Snapshot, Cutoffs and Exclusions are safe for concurrent readers once
// constructed. None of them may be mutated while a build is in flight.
package md
