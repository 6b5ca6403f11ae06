package engine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"
	"golang.org/x/sync/errgroup"

	"memtable/block"
)

// DefaultScanPlanCacheSize is the default capacity of the projection plan
// cache.
const DefaultScanPlanCacheSize = 256

// Cursor is a shared atomic index into one snapshot's block sequence. It is
// created fresh per scan, monotonically incremented, and never reused across
// scans.
type Cursor struct {
	next  atomic.Uint64
	limit uint64
}

// Next atomically claims the next block index. It returns the pre-increment
// value while it is a valid index, then ok=false as the end-of-stream
// signal. Each index is handed to exactly one caller, with no possibility of
// double assignment under any degree of parallelism.
func (c *Cursor) Next() (int, bool) {
	i := c.next.Add(1) - 1
	if i >= c.limit {
		return 0, false
	}
	return int(i), true
}

// columnRef is a pre-split projection target: the column name as requested,
// its name in storage, and the subcolumn path (empty for plain names).
type columnRef struct {
	name   string
	parent string
	sub    string
}

// ScanCoordinator plans parallel scans: it partitions a snapshot's blocks
// across workers through one shared cursor and performs per-block column
// projection. Parsed projections are cached per requested column list.
type ScanCoordinator struct {
	plans *freelru.SyncedLRU[string, []columnRef]
}

// NewScanCoordinator creates a coordinator with a projection plan cache of
// the given capacity (0 = DefaultScanPlanCacheSize).
func NewScanCoordinator(cacheSize uint32) *ScanCoordinator {
	if cacheSize == 0 {
		cacheSize = DefaultScanPlanCacheSize
	}
	plans, err := freelru.NewSynced[string, []columnRef](cacheSize, func(key string) uint32 {
		return uint32(xxhash.Sum64String(key))
	})
	if err != nil {
		// Only reachable with capacity 0, which is remapped above.
		panic(err)
	}
	return &ScanCoordinator{plans: plans}
}

func (sc *ScanCoordinator) resolveColumns(columns []string) []columnRef {
	if len(columns) == 0 {
		return nil
	}
	key := strings.Join(columns, "\x00")
	if refs, ok := sc.plans.Get(key); ok {
		return refs
	}
	refs := make([]columnRef, len(columns))
	for i, name := range columns {
		parent, sub := block.SplitQualified(name)
		refs[i] = columnRef{name: name, parent: parent, sub: sub}
	}
	sc.plans.Add(key, refs)
	return refs
}

// Plan prepares a parallel scan of snap.
//
// The effective worker count is min(requestedWorkers, number of blocks);
// requestedWorkers below 1 counts as 1. All workers share one cursor, so the
// union of indices they claim covers every block exactly once. Distribution
// across workers is unspecified.
//
// columns lists the output columns; dotted names resolve nested subcolumns.
// An empty list projects whole blocks.
func (sc *ScanCoordinator) Plan(snap *Snapshot, columns []string, requestedWorkers int) (*ScanPlan, error) {
	if snap == nil {
		return nil, fmt.Errorf("scan: nil snapshot")
	}
	if requestedWorkers < 1 {
		requestedWorkers = 1
	}
	workers := requestedWorkers
	if n := snap.NumBlocks(); workers > n {
		workers = n
	}
	return &ScanPlan{
		snap:    snap,
		refs:    sc.resolveColumns(columns),
		workers: workers,
		cursor:  &Cursor{limit: uint64(snap.NumBlocks())},
	}, nil
}

// ScanPlan is a planned parallel scan: a pinned snapshot, the resolved
// projection, the effective worker count, and the shared cursor.
type ScanPlan struct {
	snap    *Snapshot
	refs    []columnRef
	workers int
	cursor  *Cursor
}

// Snapshot returns the snapshot pinned by the plan. Later publishes do not
// affect it.
func (p *ScanPlan) Snapshot() *Snapshot { return p.snap }

// Workers returns the effective worker count.
func (p *ScanPlan) Workers() int { return p.workers }

// Cursor returns the shared scan cursor, for callers driving workers
// themselves.
func (p *ScanPlan) Cursor() *Cursor { return p.cursor }

// Project assembles the plan's requested columns from b, in request order,
// sharing column storage with the source block. Zero-row blocks project to
// zero-row blocks: the schema is preserved even with no rows.
func (p *ScanPlan) Project(b *block.Block) (*block.Block, error) {
	if len(p.refs) == 0 {
		return b, nil
	}
	names := make([]string, len(p.refs))
	columns := make(map[string]block.Column, len(p.refs))
	for i, ref := range p.refs {
		col, err := b.ByName(ref.parent)
		if err != nil {
			return nil, err
		}
		if ref.sub != "" {
			if col, err = block.Subcolumn(col, ref.parent, ref.sub); err != nil {
				return nil, err
			}
		}
		names[i] = ref.name
		columns[ref.name] = col
	}
	return block.New(names, columns)
}

// Run executes the plan: it starts the effective number of workers, each
// claiming blocks from the shared cursor, projecting them, and passing them
// to emit until the cursor is exhausted, emit fails, or ctx is done.
//
// emit is called concurrently from all workers and must be safe for that.
// Workers still emit zero-row blocks.
func (p *ScanPlan) Run(ctx context.Context, emit func(*block.Block) error) error {
	if p.workers == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < p.workers; w++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				i, ok := p.cursor.Next()
				if !ok {
					return nil
				}
				out, err := p.Project(p.snap.Block(i))
				if err != nil {
					return fmt.Errorf("block %d: %w", i, err)
				}
				if err := emit(out); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
