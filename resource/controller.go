// Package resource bounds the memory and ingest throughput of in-memory
// tables. All state lives on the Go heap, so the only budgets that matter
// are resident bytes and commit rate.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for published table data.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// IngestLimitBytesPerSec is the maximum commit throughput.
	// If 0, unlimited.
	IngestLimitBytesPerSec int64
}

// Controller manages memory and ingest budgets shared by one or more
// tables.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	ingestLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IngestLimitBytesPerSec > 0 {
		c.ingestLimiter = rate.NewLimiter(rate.Limit(cfg.IngestLimitBytesPerSec), int(cfg.IngestLimitBytesPerSec))
	}

	return c
}

// AcquireMemory attempts to reserve memory for data about to be published.
// If a hard limit is configured and usage would exceed it, this blocks until
// memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// WaitIngest waits until the ingest limit allows the specified number of
// bytes to be committed.
func (c *Controller) WaitIngest(ctx context.Context, bytes int) error {
	if c == nil || c.ingestLimiter == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}
	// A single wait may not exceed the limiter burst.
	if burst := c.ingestLimiter.Burst(); bytes > burst {
		bytes = burst
	}
	return c.ingestLimiter.WaitN(ctx, bytes)
}
