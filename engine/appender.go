package engine

import (
	"context"

	"memtable/block"
)

// Appender is the write path for one logical write operation: it buffers
// newly written blocks and publishes them all at once on Commit.
//
// An Appender is used by a single logical writer and needs no internal
// synchronization. Independent appenders may commit concurrently; their
// commits are serialized by the table's commit lock and a partial commit is
// never visible to readers.
type Appender struct {
	eng     *Engine
	pending []*block.Block
	rows    uint64
	bytes   uint64
}

// NewAppender creates an appender for one logical write operation.
func (e *Engine) NewAppender() *Appender {
	return &Appender{eng: e}
}

// Write buffers b for the next Commit. The block is shared, not copied, and
// must not be modified afterwards.
func (a *Appender) Write(b *block.Block) error {
	if b == nil {
		return ErrNilBlock
	}
	a.pending = append(a.pending, b)
	a.rows += uint64(b.Rows())
	a.bytes += b.SizeBytes()
	return nil
}

// Pending returns the buffered row and byte counts.
func (a *Appender) Pending() (rows, bytes uint64) {
	return a.rows, a.bytes
}

// Commit publishes all buffered blocks as an extension of the current
// snapshot.
//
// Under the commit lock it copies the old snapshot's block list, appends the
// pending blocks (contents shared, not duplicated), updates the totals, and
// publishes the new snapshot with a single atomic swap. On any error nothing
// is published and the prior snapshot remains visible.
//
// Committing with no buffered blocks is a legal no-op. After a successful
// Commit the appender is empty and may be reused.
func (a *Appender) Commit(ctx context.Context) error {
	if len(a.pending) == 0 {
		// Observably equivalent to republishing identical content.
		return nil
	}

	// Pacing and memory reservation happen before the lock so a blocked
	// reservation never stalls other writers.
	if rc := a.eng.rc; rc != nil {
		if err := rc.WaitIngest(ctx, int(a.bytes)); err != nil {
			return err
		}
		if err := rc.AcquireMemory(ctx, int64(a.bytes)); err != nil {
			return err
		}
	}

	a.eng.commitMu.Lock()
	defer a.eng.commitMu.Unlock()

	old := a.eng.store.Get()
	snap := old.extend(a.pending, a.rows, a.bytes)

	a.eng.totals.OnAppend(a.rows, a.bytes)
	a.eng.store.Publish(snap)

	a.pending = nil
	a.rows = 0
	a.bytes = 0

	return nil
}
