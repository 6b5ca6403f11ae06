package memtable

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordCommit is called after each append-commit.
	// rows and bytes cover the committed blocks; err is nil on success.
	RecordCommit(rows, bytes uint64, duration time.Duration, err error)

	// RecordScan is called after each scan completes or fails.
	// workers is the effective worker count, blocks the snapshot size.
	RecordScan(workers, blocks int, duration time.Duration, err error)

	// RecordMutation is called after each bulk mutation.
	RecordMutation(duration time.Duration, err error)

	// RecordTruncate is called after each drop/truncate.
	RecordTruncate()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCommit(uint64, uint64, time.Duration, error) {}
func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordMutation(time.Duration, error)               {}
func (NoopMetricsCollector) RecordTruncate()                                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CommitCount      atomic.Int64
	CommitErrors     atomic.Int64
	CommitRows       atomic.Int64
	CommitBytes      atomic.Int64
	CommitTotalNanos atomic.Int64
	ScanCount        atomic.Int64
	ScanErrors       atomic.Int64
	ScanTotalNanos   atomic.Int64
	MutationCount    atomic.Int64
	MutationErrors   atomic.Int64
	TruncateCount    atomic.Int64
}

// RecordCommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommit(rows, bytes uint64, duration time.Duration, err error) {
	b.CommitCount.Add(1)
	b.CommitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CommitErrors.Add(1)
		return
	}
	b.CommitRows.Add(int64(rows))
	b.CommitBytes.Add(int64(bytes))
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(workers, blocks int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// RecordMutation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMutation(duration time.Duration, err error) {
	b.MutationCount.Add(1)
	if err != nil {
		b.MutationErrors.Add(1)
	}
}

// RecordTruncate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTruncate() {
	b.TruncateCount.Add(1)
}

// Stats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) Stats() BasicMetricsStats {
	return BasicMetricsStats{
		CommitCount:    b.CommitCount.Load(),
		CommitErrors:   b.CommitErrors.Load(),
		CommitRows:     b.CommitRows.Load(),
		CommitBytes:    b.CommitBytes.Load(),
		CommitAvgNanos: avg(b.CommitTotalNanos.Load(), b.CommitCount.Load()),
		ScanCount:      b.ScanCount.Load(),
		ScanErrors:     b.ScanErrors.Load(),
		ScanAvgNanos:   avg(b.ScanTotalNanos.Load(), b.ScanCount.Load()),
		MutationCount:  b.MutationCount.Load(),
		MutationErrors: b.MutationErrors.Load(),
		TruncateCount:  b.TruncateCount.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CommitCount    int64
	CommitErrors   int64
	CommitRows     int64
	CommitBytes    int64
	CommitAvgNanos int64
	ScanCount      int64
	ScanErrors     int64
	ScanAvgNanos   int64
	MutationCount  int64
	MutationErrors int64
	TruncateCount  int64
}
