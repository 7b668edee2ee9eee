package zunderbolt

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting stream I/O metrics.
// Implement this interface to integrate with monitoring systems; see
// PrometheusCollector for a ready-made Prometheus implementation.
type MetricsCollector interface {
	// RecordOpen is called after each open attempt. err is nil on success.
	RecordOpen(mode string, err error)

	// RecordPhysicalRead is called after each read that reached the platform.
	RecordPhysicalRead(bytes int, duration time.Duration, err error)

	// RecordPhysicalWrite is called after each write that reached the platform.
	// Writes only reach the platform when a dirty window is flushed.
	RecordPhysicalWrite(bytes int, duration time.Duration, err error)

	// RecordBufferGrow is called after a stream cache reallocates.
	RecordBufferGrow(capacity int)

	// RecordReadClamp is called when a read request extends past end of stream.
	RecordReadClamp(requested, served int)

	// RecordCopy is called after each batch copy.
	RecordCopy(bytes int64, batches int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(string, error) {}
func (NoopMetricsCollector) RecordPhysicalRead(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordPhysicalWrite(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordBufferGrow(int) {}
func (NoopMetricsCollector) RecordReadClamp(int, int) {}
func (NoopMetricsCollector) RecordCopy(int64, int, time.Duration, error) {}

// MultiMetricsCollector fans every record out to each collector in order.
type MultiMetricsCollector []MetricsCollector

func (m MultiMetricsCollector) RecordOpen(mode string, err error) {
	for _, c := range m {
		c.RecordOpen(mode, err)
	}
}

func (m MultiMetricsCollector) RecordPhysicalRead(bytes int, d time.Duration, err error) {
	for _, c := range m {
		c.RecordPhysicalRead(bytes, d, err)
	}
}

func (m MultiMetricsCollector) RecordPhysicalWrite(bytes int, d time.Duration, err error) {
	for _, c := range m {
		c.RecordPhysicalWrite(bytes, d, err)
	}
}

func (m MultiMetricsCollector) RecordBufferGrow(capacity int) {
	for _, c := range m {
		c.RecordBufferGrow(capacity)
	}
}

func (m MultiMetricsCollector) RecordReadClamp(requested, served int) {
	for _, c := range m {
		c.RecordReadClamp(requested, served)
	}
}

func (m MultiMetricsCollector) RecordCopy(bytes int64, batches int, d time.Duration, err error) {
	for _, c := range m {
		c.RecordCopy(bytes, batches, d, err)
	}
}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	OpenCount       atomic.Int64
	OpenErrors      atomic.Int64
	ReadCount       atomic.Int64
	ReadErrors      atomic.Int64
	ReadBytes       atomic.Int64
	ReadTotalNanos  atomic.Int64
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteBytes      atomic.Int64
	WriteTotalNanos atomic.Int64
	GrowCount       atomic.Int64
	MaxCapacity     atomic.Int64
	ReadClamps      atomic.Int64
	CopyCount       atomic.Int64
	CopyErrors      atomic.Int64
	CopyBytes       atomic.Int64
	CopyBatches     atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(_ string, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordPhysicalRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPhysicalRead(bytes int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadBytes.Add(int64(bytes))
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordPhysicalWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPhysicalWrite(bytes int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteBytes.Add(int64(bytes))
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordBufferGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBufferGrow(capacity int) {
	b.GrowCount.Add(1)
	for {
		cur := b.MaxCapacity.Load()
		if int64(capacity) <= cur || b.MaxCapacity.CompareAndSwap(cur, int64(capacity)) {
			return
		}
	}
}

// RecordReadClamp implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReadClamp(int, int) {
	b.ReadClamps.Add(1)
}

// RecordCopy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCopy(bytes int64, batches int, _ time.Duration, err error) {
	b.CopyCount.Add(1)
	b.CopyBytes.Add(bytes)
	b.CopyBatches.Add(int64(batches))
	if err != nil {
		b.CopyErrors.Add(1)
	}
}

// GetStats returns a snapshot of the current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:     b.OpenCount.Load(),
		OpenErrors:    b.OpenErrors.Load(),
		ReadCount:     b.ReadCount.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		ReadBytes:     b.ReadBytes.Load(),
		ReadAvgNanos:  avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		WriteCount:    b.WriteCount.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteBytes:    b.WriteBytes.Load(),
		WriteAvgNanos: avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		GrowCount:     b.GrowCount.Load(),
		MaxCapacity:   b.MaxCapacity.Load(),
		ReadClamps:    b.ReadClamps.Load(),
		CopyCount:     b.CopyCount.Load(),
		CopyErrors:    b.CopyErrors.Load(),
		CopyBytes:     b.CopyBytes.Load(),
		CopyBatches:   b.CopyBatches.Load(),
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
	OpenCount     int64
	OpenErrors    int64
	ReadCount     int64
	ReadErrors    int64
	ReadBytes     int64
	ReadAvgNanos  int64
	WriteCount    int64
	WriteErrors   int64
	WriteBytes    int64
	WriteAvgNanos int64
	GrowCount     int64
	MaxCapacity   int64
	ReadClamps    int64
	CopyCount     int64
	CopyErrors    int64
	CopyBytes     int64
	CopyBatches   int64
}
