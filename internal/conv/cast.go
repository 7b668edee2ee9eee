package conv

import (
	"fmt"
	"math"
)

// Int64ToInt converts an int64 stream offset or length to int safely.
// On 32-bit platforms offsets above math.MaxInt32 cannot index a slice.
func Int64ToInt(v int64) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (negative)", v)
	}
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", v)
	}
	// On 64-bit systems, int can exceed uint32 max; on 32-bit, this is always false
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}

// SplitOffset splits a non-negative file offset into its low and high 32-bit words.
func SplitOffset(off int64) (lo, hi uint32, err error) {
	if off < 0 {
		return 0, 0, fmt.Errorf("integer overflow: offset %d is negative", off)
	}
	u := uint64(off)
	return uint32(u & math.MaxUint32), uint32(u >> 32), nil
}

// ScaleCapacity returns ceil(required*factor), never less than required.
func ScaleCapacity(required int, factor float64) (int, error) {
	if required < 0 {
		return 0, fmt.Errorf("integer overflow: capacity %d is negative", required)
	}
	if factor < 1 {
		factor = 1
	}
	scaled := math.Ceil(float64(required) * factor)
	if scaled >= float64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: capacity %d * %.2f exceeds int", required, factor)
	}
	n := int(scaled)
	if n < required {
		n = required
	}
	return n, nil
}

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
func AlignUp(n, align int) (int, error) {
	if align <= 1 {
		return n, nil
	}
	if n > math.MaxInt-(align-1) {
		return 0, fmt.Errorf("integer overflow: %d cannot be aligned to %d", n, align)
	}
	return (n + align - 1) &^ (align - 1), nil
}
