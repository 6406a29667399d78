// Package state defines the observable-state contract for stateful services:
// a service holds one immutable snapshot and publishes a change broadcast on
// every whole-value replacement, plus an optional persistence seam for
// hydrating and checkpointing snapshots.
//
// Responsibilities:
//   - Observable[T] is the read-side contract a service exposes: a snapshot
//     getter and a change broadcast that fires once per replacement, after
//     the backing value has been assigned.
//   - Container[T] is the reference implementation. It assumes single-writer
//     semantics: the owning service performs the one and only Set/Mutate
//     sequence, and concurrent writers are the caller's problem.
//   - Store[T] only loads/saves a single snapshot for a single key; all
//     persistence logic stays behind Store implementations supplied by
//     consumers. MemoryStore is intended for tests and examples.
//
// Snapshots are opaque immutable values. Replacement is always by whole-value
// substitution; the package never performs partial updates, though a service
// may construct the next snapshot by copying the prior one. Resetting a
// snapshot uses the sentinel convention: assign an explicit empty value
// rather than nulling a field.
package state
