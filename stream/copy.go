package stream

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/zunderbolt"
	"github.com/hupe1980/zunderbolt/internal/contract"
	"github.com/hupe1980/zunderbolt/internal/hash"
	"github.com/hupe1980/zunderbolt/resource"
)

// DefaultBatchSize is the copy batch size, one common filesystem cluster.
const DefaultBatchSize = 4096

// Positioner is the part of the stream contract Copy needs on both ends.
type Positioner interface {
	Length() int64
	SetPosition(pos int64)
}

// Readable is a copy source.
type Readable interface {
	Positioner
	io.Reader
}

// Writable is a copy destination.
type Writable interface {
	Positioner
	io.Writer
}

// CopyResult summarizes a finished or interrupted copy.
type CopyResult struct {
	// Bytes copied.
	Bytes int64
	// Batches is the number of read/write pairs issued.
	Batches int
	// Checksum is the CRC-32C of the copied bytes when WithChecksum is set.
	Checksum uint32
}

type copyOptions struct {
	batchSize   int
	checksum    bool
	concurrency int
	controller  *resource.Controller
	logger      *zunderbolt.Logger
	metrics     zunderbolt.MetricsCollector
}

// CopyOption configures Copy and CopyAll.
type CopyOption func(*copyOptions)

// WithBatchSize sets the batch size in bytes. Must be positive.
func WithBatchSize(n int) CopyOption {
	return func(o *copyOptions) {
		o.batchSize = n
	}
}

// WithChecksum computes a CRC-32C of the copied bytes.
func WithChecksum(enabled bool) CopyOption {
	return func(o *copyOptions) {
		o.checksum = enabled
	}
}

// WithConcurrency bounds the number of CopyAll jobs running at once.
func WithConcurrency(n int) CopyOption {
	return func(o *copyOptions) {
		o.concurrency = n
	}
}

// WithCopyController throttles batches with the controller's IO limit and
// gates CopyAll jobs on its copy slots.
func WithCopyController(c *resource.Controller) CopyOption {
	return func(o *copyOptions) {
		o.controller = c
	}
}

// WithCopyLogger configures logging for copies.
func WithCopyLogger(logger *zunderbolt.Logger) CopyOption {
	return func(o *copyOptions) {
		o.logger = logger
	}
}

// WithCopyMetrics configures the metrics collector for copies.
func WithCopyMetrics(mc zunderbolt.MetricsCollector) CopyOption {
	return func(o *copyOptions) {
		o.metrics = mc
	}
}

// CopyOptionsFromConfig translates the copy section of cfg into options.
func CopyOptionsFromConfig(cfg zunderbolt.Config) []CopyOption {
	return []CopyOption{
		WithBatchSize(cfg.Copy.BatchSize),
		WithChecksum(cfg.Copy.Checksum),
	}
}

func applyCopyOptions(optFns []CopyOption) copyOptions {
	o := copyOptions{
		batchSize: DefaultBatchSize,
		logger:    zunderbolt.NoopLogger(),
		metrics:   zunderbolt.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = zunderbolt.NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = zunderbolt.NoopMetricsCollector{}
	}
	if o.concurrency <= 0 {
		o.concurrency = int(o.controller.Config().MaxConcurrentCopies)
	}
	if o.concurrency <= 0 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	return o
}

// Copy copies n bytes from srcOffset in src to dstOffset in dst.
//
// Both streams are positioned first. The copy then runs in full batches
// followed by one partial batch, each a Read into a scratch buffer owned by
// the call followed by a Write of the same bytes. Requires
// srcOffset < src.Length(), dstOffset <= dst.Length() and
// srcOffset+n <= src.Length(); violations return ErrInvalidArgument.
func Copy(ctx context.Context, dst Writable, src Readable, srcOffset, dstOffset, n int64, opts ...CopyOption) (res CopyResult, err error) {
	o := applyCopyOptions(opts)

	srcLen, dstLen := src.Length(), dst.Length()
	valid := o.batchSize > 0 && n >= 0 && srcOffset >= 0 && dstOffset >= 0 &&
		srcOffset < srcLen && dstOffset <= dstLen && n <= srcLen-srcOffset
	contract.Require(valid, "copy %d bytes from %d/%d to %d/%d in batches of %d",
		n, srcOffset, srcLen, dstOffset, dstLen, o.batchSize)
	if !valid {
		return res, fmt.Errorf("%w: copy %d bytes from offset %d of %d to offset %d of %d, batch %d",
			ErrInvalidArgument, n, srcOffset, srcLen, dstOffset, dstLen, o.batchSize)
	}

	start := time.Now()
	defer func() {
		o.metrics.RecordCopy(res.Bytes, res.Batches, time.Since(start), err)
		o.logger.LogCopy(ctx, res.Bytes, res.Batches, err)
	}()

	src.SetPosition(srcOffset)
	dst.SetPosition(dstOffset)

	scratch := make([]byte, min(int64(o.batchSize), n))
	for remaining := n; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		batch := scratch[:min(remaining, int64(len(scratch)))]
		if _, err := io.ReadFull(src, batch); err != nil {
			return res, fmt.Errorf("copy read at offset %d: %w", srcOffset+res.Bytes, err)
		}
		if err := o.controller.AcquireIO(ctx, len(batch)); err != nil {
			return res, err
		}
		if _, err := dst.Write(batch); err != nil {
			return res, fmt.Errorf("copy write at offset %d: %w", dstOffset+res.Bytes, err)
		}
		if o.checksum {
			res.Checksum = hash.UpdateCRC32C(res.Checksum, batch)
		}

		res.Bytes += int64(len(batch))
		res.Batches++
		remaining -= int64(len(batch))
	}

	return res, nil
}

// CopyJob is one independent copy for CopyAll.
type CopyJob struct {
	Dst       Writable
	Src       Readable
	SrcOffset int64
	DstOffset int64
	Count     int64
}

// CopyAll runs jobs concurrently, each with its own scratch buffer. Jobs must
// not share stream instances. The first failure cancels the remaining jobs;
// results holds what every job copied.
func CopyAll(ctx context.Context, jobs []CopyJob, opts ...CopyOption) ([]CopyResult, error) {
	o := applyCopyOptions(opts)
	results := make([]CopyResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			if err := o.controller.AcquireCopySlot(gctx); err != nil {
				return err
			}
			defer o.controller.ReleaseCopySlot()

			res, err := Copy(gctx, job.Dst, job.Src, job.SrcOffset, job.DstOffset, job.Count, opts...)
			results[i] = res
			if err != nil {
				return fmt.Errorf("copy job %d: %w", i, err)
			}
			return nil
		})
	}

	return results, g.Wait()
}
