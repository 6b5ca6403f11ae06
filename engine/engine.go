package engine

import (
	"context"
	"sync"
)

// ResourceController reserves memory for published table data and paces
// ingest throughput. *resource.Controller satisfies it. A nil controller
// means no limits.
type ResourceController interface {
	// AcquireMemory reserves bytes, blocking until available or ctx is done.
	AcquireMemory(ctx context.Context, bytes int64) error

	// ReleaseMemory returns previously reserved bytes.
	ReleaseMemory(bytes int64)

	// WaitIngest blocks until the ingest throughput budget allows bytes.
	WaitIngest(ctx context.Context, bytes int) error
}

// Options configures an Engine.
type Options struct {
	// ResourceController limits memory held by published snapshots and
	// paces commits. Nil disables resource control.
	ResourceController ResourceController

	// ScanPlanCacheSize bounds the projection plan cache. Zero uses
	// DefaultScanPlanCacheSize.
	ScanPlanCacheSize uint32
}

// Engine owns one table's storage state: the published snapshot, the size
// totals, and the commit lock serializing all writer-side operations.
//
// Readers never take the commit lock; they load the snapshot pointer and are
// wait-free with respect to concurrent writers.
type Engine struct {
	// commitMu is the commit lock. It protects exactly the sequence "read
	// old snapshot, compute new snapshot, update totals, publish" as one
	// logical transaction, for append-commit, mutate, and truncate alike.
	commitMu sync.Mutex

	store  *SnapshotStore
	totals Totals
	scans  *ScanCoordinator
	rc     ResourceController
}

// New creates an engine with an empty published snapshot.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		store: NewSnapshotStore(),
		scans: NewScanCoordinator(opts.ScanPlanCacheSize),
		rc:    opts.ResourceController,
	}
}

// Store returns the engine's snapshot store.
func (e *Engine) Store() *SnapshotStore { return e.store }

// Totals returns the engine's size counters.
func (e *Engine) Totals() *Totals { return &e.totals }

// Snapshot returns the currently published snapshot.
func (e *Engine) Snapshot() *Snapshot { return e.store.Get() }

// PlanScan plans a parallel scan over the currently published snapshot. See
// ScanCoordinator.Plan.
func (e *Engine) PlanScan(columns []string, requestedWorkers int) (*ScanPlan, error) {
	return e.scans.Plan(e.store.Get(), columns, requestedWorkers)
}

// Truncate publishes an empty snapshot and zeroes the totals. Idempotent:
// truncating an already empty table is a no-op with the same end state.
func (e *Engine) Truncate() {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	old := e.store.Get()
	e.store.Publish(NewSnapshot(nil))
	e.totals.OnReset()

	if e.rc != nil && old.Bytes() > 0 {
		e.rc.ReleaseMemory(int64(old.Bytes()))
	}
}
