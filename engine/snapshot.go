package engine

import (
	"sync/atomic"

	"memtable/block"
)

// Snapshot is an immutable, ordered sequence of blocks representing a
// table's full contents at one moment, plus its precomputed row and byte
// sums.
//
// A Snapshot is shared by every holder that obtained it before the next
// publish and lives until its last holder drops it. Its block slice and the
// blocks themselves are never mutated after publication.
type Snapshot struct {
	blocks []*block.Block
	rows   uint64
	bytes  uint64
}

// NewSnapshot creates a snapshot over blocks, summing rows and bytes across
// the whole sequence. The slice is owned by the snapshot after the call.
func NewSnapshot(blocks []*block.Block) *Snapshot {
	s := &Snapshot{blocks: blocks}
	for _, b := range blocks {
		s.rows += uint64(b.Rows())
		s.bytes += b.SizeBytes()
	}
	return s
}

// extend returns a new snapshot holding the receiver's blocks followed by
// more. Block contents are shared, never duplicated; only the block list is
// copied.
func (s *Snapshot) extend(more []*block.Block, rows, bytes uint64) *Snapshot {
	blocks := make([]*block.Block, 0, len(s.blocks)+len(more))
	blocks = append(blocks, s.blocks...)
	blocks = append(blocks, more...)
	return &Snapshot{
		blocks: blocks,
		rows:   s.rows + rows,
		bytes:  s.bytes + bytes,
	}
}

// NumBlocks returns the number of blocks in the snapshot.
func (s *Snapshot) NumBlocks() int { return len(s.blocks) }

// Block returns the block at index i.
func (s *Snapshot) Block(i int) *block.Block { return s.blocks[i] }

// Blocks returns the snapshot's block sequence. The returned slice must not
// be modified.
func (s *Snapshot) Blocks() []*block.Block { return s.blocks }

// Rows returns the total row count across all blocks.
func (s *Snapshot) Rows() uint64 { return s.rows }

// Bytes returns the total estimated byte size across all blocks.
func (s *Snapshot) Bytes() uint64 { return s.bytes }

// SnapshotStore holds a table's current snapshot behind an atomically
// swappable reference.
//
// Get is wait-free and safe to call concurrently with Publish. Publish must
// only be invoked while the caller holds the table's commit lock; the swap
// itself is a single atomic store, so a reader observes either the snapshot
// from before a publish or the one after, never a mixture.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
}

// NewSnapshotStore creates a store publishing an empty snapshot.
func NewSnapshotStore() *SnapshotStore {
	st := &SnapshotStore{}
	st.current.Store(NewSnapshot(nil))
	return st
}

// Get returns the currently published snapshot. It never blocks and never
// returns nil. A scan that obtained a snapshot before a later Publish keeps
// observing it unchanged for the scan's entire duration.
func (st *SnapshotStore) Get() *Snapshot {
	return st.current.Load()
}

// Publish atomically replaces the current snapshot. The caller must hold the
// commit lock.
func (st *SnapshotStore) Publish(s *Snapshot) {
	st.current.Store(s)
}
