// Package engine implements the storage core of memtable: copy-on-write
// snapshot publication, lock-free work distribution for parallel scans, and
// a dual-mode bulk mutation path, all serialized by a single commit lock
// that is never taken by readers.
//
// # Architecture
//
// The engine owns exactly three pieces of shared state per table:
//
//   - SnapshotStore: the current Snapshot behind one atomic pointer. Readers
//     load it wait-free; writers swap it whole while holding the commit lock.
//   - Totals: relaxed atomic row/byte counters approximating the current
//     snapshot's size.
//   - the commit lock, serializing append-commit, mutate, and truncate
//     against each other, never against readers.
//
// A published Snapshot is immutable. Every write path builds a new batch
// sequence (sharing unchanged block contents) and publishes it with a single
// pointer swap, so no reader ever observes a partially-updated state. A
// failed commit or mutation publishes nothing: the prior snapshot stays
// visible (all-or-nothing publication).
package engine
