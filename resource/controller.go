package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// BufferMemoryLimitBytes is the hard limit for memory reserved by stream buffers.
	// If 0, no hard limit is enforced (only tracking).
	BufferMemoryLimitBytes int64

	// MaxConcurrentCopies is the maximum number of copy jobs running at once.
	// If 0, defaults to 1.
	MaxConcurrentCopies int64

	// CopyBytesPerSec is the maximum copy throughput.
	// If 0, unlimited.
	CopyBytesPerSec int64
}

// Controller manages resources shared by streams and copy jobs.
// It is safe for concurrent use. A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Concurrency
	copySem *semaphore.Weighted

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentCopies <= 0 {
		cfg.MaxConcurrentCopies = 1
	}

	c := &Controller{
		cfg:     cfg,
		copySem: semaphore.NewWeighted(cfg.MaxConcurrentCopies),
	}

	if cfg.BufferMemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.BufferMemoryLimitBytes)
	}

	if cfg.CopyBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.CopyBytesPerSec), int(cfg.CopyBytesPerSec))
	}

	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves buffer memory.
// If a hard limit is configured and usage would exceed it,
// this blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
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

// TryAcquireMemory attempts to reserve buffer memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
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

// ReleaseMemory releases reserved buffer memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current buffer memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireCopySlot reserves a copy job slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireCopySlot(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.copySem.Acquire(ctx, 1)
}

// TryAcquireCopySlot attempts to reserve a copy job slot without blocking.
func (c *Controller) TryAcquireCopySlot() bool {
	if c == nil {
		return true
	}
	return c.copySem.TryAcquire(1)
}

// ReleaseCopySlot releases a copy job slot.
func (c *Controller) ReleaseCopySlot() {
	if c == nil {
		return
	}
	c.copySem.Release(1)
}

// AcquireIO waits until the throughput limit allows the specified number of bytes.
// Requests larger than the limiter burst are split into burst-sized waits.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil || bytes <= 0 {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
