package engine

import "sync/atomic"

// Totals tracks a table's approximate row and byte counts with relaxed
// atomic counters.
//
// The pair is not updated atomically as a unit: a concurrent reader may see
// rows from after an update and bytes from before it, or vice versa. All
// writes happen inside the commit-lock critical section, so the counters are
// eventually consistent with the last published snapshot and never negative.
type Totals struct {
	rows  atomic.Uint64
	bytes atomic.Uint64
}

// OnAppend adds the size of newly committed blocks.
func (t *Totals) OnAppend(rows, bytes uint64) {
	t.rows.Add(rows)
	t.bytes.Add(bytes)
}

// OnReplace overwrites both counters with the size of a rebuilt snapshot.
func (t *Totals) OnReplace(rows, bytes uint64) {
	t.rows.Store(rows)
	t.bytes.Store(bytes)
}

// OnReset zeroes both counters.
func (t *Totals) OnReset() {
	t.rows.Store(0)
	t.bytes.Store(0)
}

// Rows returns the approximate total row count. When read concurrently with
// a writer, any value from "before" or "after" the write is fine.
func (t *Totals) Rows() uint64 { return t.rows.Load() }

// Bytes returns the approximate total byte size.
func (t *Totals) Bytes() uint64 { return t.bytes.Load() }
