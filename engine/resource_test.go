package engine

import (
	"context"
	"testing"

	"memtable/block"
	"memtable/resource"
)

func newLimitedEngine(c *resource.Controller) *Engine {
	return New(func(o *Options) {
		o.ResourceController = c
	})
}

func TestResourceControl_CommitReservesMemory(t *testing.T) {
	c := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	e := newLimitedEngine(c)

	b := intsBlock(t, 10, 0)
	commitBlocks(t, e, b)

	if got, want := c.MemoryUsage(), int64(b.SizeBytes()); got != want {
		t.Fatalf("memory usage = %d, want %d", got, want)
	}
}

func TestResourceControl_CommitFailsOverBudget(t *testing.T) {
	b := intsBlock(t, 10, 0)
	c := resource.NewController(resource.Config{MemoryLimitBytes: int64(b.SizeBytes()) - 1})
	e := newLimitedEngine(c)

	a := e.NewAppender()
	if err := a.Write(b); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Commit(ctx); err == nil {
		t.Fatal("over-budget commit succeeded")
	}

	// Nothing was published and nothing stays reserved.
	if n := e.Snapshot().NumBlocks(); n != 0 {
		t.Fatalf("failed commit published %d blocks", n)
	}
	if got := c.MemoryUsage(); got != 0 {
		t.Fatalf("failed commit leaked %d reserved bytes", got)
	}
}

func TestResourceControl_TruncateReleases(t *testing.T) {
	c := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	e := newLimitedEngine(c)
	commitBlocks(t, e, intsBlock(t, 10, 0), intsBlock(t, 5, 100))

	e.Truncate()
	if got := c.MemoryUsage(); got != 0 {
		t.Fatalf("truncate left %d bytes reserved", got)
	}
}

func TestResourceControl_MutationAdjustsByDelta(t *testing.T) {
	c := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	e := newLimitedEngine(c)

	commitBlocks(t, e, intsBlock(t, 10, 0))

	smaller := intsBlock(t, 2, 0)
	err := e.Mutate(context.Background(), Mutation{
		Mode: ModeFullReplace,
		Transform: func([]*block.Block) ([]*block.Block, error) {
			return []*block.Block{smaller}, nil
		},
	})
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	if got, want := c.MemoryUsage(), int64(smaller.SizeBytes()); got != want {
		t.Fatalf("memory usage after shrink = %d, want %d", got, want)
	}
}
