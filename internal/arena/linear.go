package arena

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/zunderbolt/internal/conv"
)

var (
	// ErrBufferFull is returned when an allocation does not fit the current capacity.
	ErrBufferFull = errors.New("arena: buffer full")
	// ErrMemoryLimit is returned when growth would exceed the memory budget.
	ErrMemoryLimit = errors.New("arena: memory limit exceeded")
	// ErrInvalidAlignment is returned for alignments that are not a power of two.
	ErrInvalidAlignment = errors.New("arena: alignment must be a power of two")
	// ErrInvalidGrowthFactor is returned for growth factors not greater than one.
	ErrInvalidGrowthFactor = errors.New("arena: growth factor must be greater than 1")
)

const (
	// DefaultLinearCapacity is the initial capacity used when none is given.
	DefaultLinearCapacity = 4096
	// DefaultLinearAlignment fits the widest code unit of the supported text
	// encodings (UTF-32), so decoded views never straddle a boundary.
	DefaultLinearAlignment = 4
	// DefaultGrowthFactor is the geometric growth applied to a required capacity.
	DefaultGrowthFactor = 1.5
)

// MemoryAcquirer accounts buffer memory against a budget.
type MemoryAcquirer interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

// GrowthPolicy controls how capacity grows when a request exceeds it.
type GrowthPolicy struct {
	// Factor multiplies the required capacity. Must be > 1.
	Factor float64
}

// DefaultGrowthPolicy returns the 1.5x growth policy.
func DefaultGrowthPolicy() GrowthPolicy {
	return GrowthPolicy{Factor: DefaultGrowthFactor}
}

// LinearStats tracks growth of a Linear buffer.
type LinearStats struct {
	Grows         uint64 // reallocations performed
	BytesReserved int64  // bytes currently accounted against the acquirer
}

// Linear is a single growable, aligned memory block with a bump cursor.
//
// The cursor (Len) marks the prefix of the block holding valid content; the rest
// of the capacity is scratch space. Linear is not safe for concurrent use.
type Linear struct {
	raw      []byte
	buf      []byte // aligned view of raw, len(buf) == capacity
	size     int
	align    int
	growth   GrowthPolicy
	acquirer MemoryAcquirer
	stats    LinearStats
}

// Option is a configuration option for Linear.
type Option func(*Linear)

// WithAlignment sets the base and capacity alignment.
func WithAlignment(align int) Option {
	return func(l *Linear) {
		l.align = align
	}
}

// WithGrowthPolicy sets the growth policy.
func WithGrowthPolicy(p GrowthPolicy) Option {
	return func(l *Linear) {
		l.growth = p
	}
}

// WithMemoryAcquirer sets the memory acquirer for the buffer.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(l *Linear) {
		l.acquirer = acquirer
	}
}

// NewLinear creates a Linear buffer with the given initial capacity.
func NewLinear(capacity int, opts ...Option) (*Linear, error) {
	if capacity <= 0 {
		capacity = DefaultLinearCapacity
	}

	l := &Linear{
		align:  DefaultLinearAlignment,
		growth: DefaultGrowthPolicy(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.align <= 0 || l.align&(l.align-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlignment, l.align)
	}
	if l.growth.Factor <= 1 {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidGrowthFactor, l.growth.Factor)
	}

	capacity, err := conv.AlignUp(capacity, l.align)
	if err != nil {
		return nil, err
	}
	if err := l.acquire(capacity); err != nil {
		return nil, err
	}
	l.raw, l.buf = allocAligned(capacity, l.align)
	return l, nil
}

// allocAligned returns a backing slice and a view of exactly capacity bytes whose
// first element sits on an align boundary.
func allocAligned(capacity, align int) ([]byte, []byte) {
	raw := make([]byte, capacity+align-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int((uintptr(align) - base%uintptr(align)) % uintptr(align))
	return raw, raw[off : off+capacity : off+capacity]
}

func (l *Linear) acquire(bytes int) error {
	if l.acquirer == nil || bytes <= 0 {
		return nil
	}
	if !l.acquirer.TryAcquireMemory(int64(bytes)) {
		return fmt.Errorf("%w: %d bytes requested", ErrMemoryLimit, bytes)
	}
	l.stats.BytesReserved += int64(bytes)
	return nil
}

// Cap returns the physical capacity in bytes.
func (l *Linear) Cap() int {
	return len(l.buf)
}

// Len returns the number of valid bytes (the virtual size).
func (l *Linear) Len() int {
	return l.size
}

// Alignment returns the configured alignment.
func (l *Linear) Alignment() int {
	return l.align
}

// Bytes returns the valid prefix of the buffer.
// The slice is invalidated by the next Reserve.
func (l *Linear) Bytes() []byte {
	return l.buf[:l.size]
}

// Alloc bumps the cursor by n bytes within the current capacity and returns the
// newly covered region.
func (l *Linear) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("arena: negative allocation %d", n)
	}
	if n > len(l.buf)-l.size {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrBufferFull, n, len(l.buf)-l.size)
	}
	region := l.buf[l.size : l.size+n]
	l.size += n
	return region, nil
}

// Reserve grows the capacity to hold at least n bytes, preserving the content.
// The new capacity is n scaled by the growth factor and rounded up to the
// alignment. A request at or below the current capacity is a no-op; the buffer
// never shrinks.
func (l *Linear) Reserve(n int) error {
	if n <= len(l.buf) {
		return nil
	}

	newCap, err := conv.ScaleCapacity(n, l.growth.Factor)
	if err != nil {
		return err
	}
	if newCap, err = conv.AlignUp(newCap, l.align); err != nil {
		return err
	}

	if err := l.acquire(newCap - len(l.buf)); err != nil {
		return err
	}

	raw, buf := allocAligned(newCap, l.align)
	copy(buf, l.buf)
	l.raw, l.buf = raw, buf
	l.stats.Grows++
	return nil
}

// Truncate moves the cursor back to n. Larger values are ignored.
func (l *Linear) Truncate(n int) {
	if n >= 0 && n < l.size {
		l.size = n
	}
}

// Reset empties the buffer without releasing capacity.
func (l *Linear) Reset() {
	l.size = 0
}

// Stats returns a snapshot of the growth statistics.
func (l *Linear) Stats() LinearStats {
	return l.stats
}

// Free releases the memory and returns the reservation to the acquirer.
// The buffer must not be used afterwards.
func (l *Linear) Free() {
	if l.acquirer != nil && l.stats.BytesReserved > 0 {
		l.acquirer.ReleaseMemory(l.stats.BytesReserved)
	}
	l.stats.BytesReserved = 0
	l.raw, l.buf, l.size = nil, nil, 0
}
