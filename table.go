package memtable

import (
	"context"
	"time"

	"memtable/block"
	"memtable/engine"
)

// Table is an in-memory columnar table: an immutable snapshot of blocks
// behind an atomic reference, size totals, and the writer-side machinery
// that replaces the snapshot under a single commit lock.
//
// All methods are safe for concurrent use. Readers never block on writers.
type Table struct {
	name       string
	engineName string
	query      SelectQuery

	eng     *engine.Engine
	logger  *Logger
	metrics MetricsCollector
}

// NewTable creates an empty table.
func NewTable(name string, optFns ...Option) *Table {
	opts := applyOptions(optFns)

	t := &Table{
		name:    name,
		logger:  opts.logger.WithTable(name),
		metrics: opts.metricsCollector,
	}
	t.eng = engine.New(func(o *engine.Options) {
		if opts.controller != nil {
			o.ResourceController = opts.controller
		}
		o.ScanPlanCacheSize = opts.scanPlanCacheSize
	})
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// EngineName returns the storage engine name the table was created with, or
// empty for directly constructed tables.
func (t *Table) EngineName() string { return t.engineName }

// DefiningQuery returns the stored select query describing the table's
// logical content. Evaluating it is an external concern.
func (t *Table) DefiningQuery() SelectQuery { return t.query }

// Snapshot returns the currently published snapshot. The returned snapshot
// is immutable and unaffected by later commits.
func (t *Table) Snapshot() *engine.Snapshot { return t.eng.Snapshot() }

// TotalRows returns the approximate total row count. When read concurrently
// with a writer, any value from "before" or "after" the write is fine.
func (t *Table) TotalRows() uint64 { return t.eng.Totals().Rows() }

// TotalBytes returns the approximate total byte size.
func (t *Table) TotalBytes() uint64 { return t.eng.Totals().Bytes() }

// NewAppender creates a write buffer for one logical write operation. Blocks
// become visible to readers atomically on Commit.
func (t *Table) NewAppender() *TableAppender {
	return &TableAppender{inner: t.eng.NewAppender(), table: t}
}

// TableAppender wraps the engine appender with the table's logging and
// metrics.
type TableAppender struct {
	inner *engine.Appender
	table *Table
}

// Write buffers a block for the next Commit.
func (a *TableAppender) Write(b *block.Block) error {
	return a.inner.Write(b)
}

// Commit publishes all buffered blocks atomically. See engine.Appender.
func (a *TableAppender) Commit(ctx context.Context) error {
	rows, bytes := a.inner.Pending()
	start := time.Now()
	err := a.inner.Commit(ctx)
	d := time.Since(start)

	a.table.metrics.RecordCommit(rows, bytes, d, err)
	a.table.logger.LogCommit(ctx, a.table.Snapshot().NumBlocks(), rows, bytes, d, err)
	return err
}

// ScanRequest describes a parallel scan: the requested output columns
// (dotted names address nested subcolumns; empty means all columns) and the
// requested worker count.
type ScanRequest struct {
	Columns []string
	Workers int
}

// PlanScan plans a parallel scan over the current snapshot without running
// it, for callers driving the shared cursor themselves.
func (t *Table) PlanScan(req ScanRequest) (*engine.ScanPlan, error) {
	return t.eng.PlanScan(req.Columns, req.Workers)
}

// Scan runs a parallel scan over the current snapshot. emit receives one
// projected block per snapshot block, exactly once each, and is called
// concurrently from all workers. Zero-row blocks are still emitted.
//
// The snapshot is pinned when Scan starts: commits and mutations that happen
// during the scan do not affect what it reads.
func (t *Table) Scan(ctx context.Context, req ScanRequest, emit func(*block.Block) error) error {
	start := time.Now()

	plan, err := t.PlanScan(req)
	if err == nil {
		err = plan.Run(ctx, emit)
	}
	d := time.Since(start)

	workers, blocks := 0, 0
	if plan != nil {
		workers, blocks = plan.Workers(), plan.Snapshot().NumBlocks()
	}
	t.metrics.RecordScan(workers, blocks, d, err)
	t.logger.LogScan(ctx, workers, blocks, d, err)
	return err
}

// Mutate applies a bulk rewrite under the commit lock and publishes the
// result atomically. See engine.Mutation for the two modes and their
// contracts. On error nothing is published.
func (t *Table) Mutate(ctx context.Context, m engine.Mutation) error {
	start := time.Now()
	err := t.eng.Mutate(ctx, m)
	d := time.Since(start)

	t.metrics.RecordMutation(d, err)
	t.logger.LogMutation(ctx, m.Mode.String(), t.Snapshot().NumBlocks(), d, err)
	return err
}

// Truncate removes all data: it publishes an empty snapshot and zeroes the
// totals. Readers holding earlier snapshots are unaffected. Idempotent.
func (t *Table) Truncate(ctx context.Context) {
	rows, bytes := t.TotalRows(), t.TotalBytes()
	t.eng.Truncate()
	t.metrics.RecordTruncate()
	t.logger.LogTruncate(ctx, rows, bytes)
}

// Drop removes all data prior to the table going away. The table object
// itself is garbage collected once the last holder drops it; in-flight scans
// keep their snapshots alive until they finish.
func (t *Table) Drop(ctx context.Context) {
	t.Truncate(ctx)
}
