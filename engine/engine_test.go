package engine

import (
	"context"
	"testing"

	"memtable/block"
)

// intsBlock builds a two-column block (x int64, y float64) with n rows
// starting at base.
func intsBlock(t *testing.T, n int, base int64) *block.Block {
	t.Helper()

	xs := make([]int64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = base + int64(i)
		ys[i] = float64(base+int64(i)) / 2
	}
	b, err := block.New(
		[]string{"x", "y"},
		map[string]block.Column{
			"x": block.NewInt64Column(xs),
			"y": block.NewFloat64Column(ys),
		},
	)
	if err != nil {
		t.Fatalf("block.New failed: %v", err)
	}
	return b
}

func commitBlocks(t *testing.T, e *Engine, blocks ...*block.Block) {
	t.Helper()

	a := e.NewAppender()
	for _, b := range blocks {
		if err := a.Write(b); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := a.Commit(context.Background()); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}

func TestEngine_StartsEmpty(t *testing.T) {
	e := New()

	snap := e.Snapshot()
	if snap == nil {
		t.Fatal("Snapshot returned nil")
	}
	if snap.NumBlocks() != 0 {
		t.Fatalf("new engine has %d blocks, want 0", snap.NumBlocks())
	}
	if rows, bytes := e.Totals().Rows(), e.Totals().Bytes(); rows != 0 || bytes != 0 {
		t.Fatalf("new engine totals rows=%d bytes=%d, want 0/0", rows, bytes)
	}
}

func TestEngine_TruncateIdempotent(t *testing.T) {
	e := New()
	commitBlocks(t, e, intsBlock(t, 3, 0), intsBlock(t, 2, 100))

	e.Truncate()
	if n := e.Snapshot().NumBlocks(); n != 0 {
		t.Fatalf("after truncate: %d blocks, want 0", n)
	}
	if rows, bytes := e.Totals().Rows(), e.Totals().Bytes(); rows != 0 || bytes != 0 {
		t.Fatalf("after truncate: rows=%d bytes=%d, want 0/0", rows, bytes)
	}

	// Second truncate must yield the same end state.
	e.Truncate()
	if n := e.Snapshot().NumBlocks(); n != 0 {
		t.Fatalf("after double truncate: %d blocks, want 0", n)
	}
	if rows, bytes := e.Totals().Rows(), e.Totals().Bytes(); rows != 0 || bytes != 0 {
		t.Fatalf("after double truncate: rows=%d bytes=%d, want 0/0", rows, bytes)
	}
}
