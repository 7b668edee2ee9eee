// Package integer provides fixed-width integer helpers.
package integer

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is the set of all fixed-width integer types.
type Integer interface {
	Signed | Unsigned
}

// Abs returns the absolute value of v.
// The minimum value of a signed type has no positive counterpart and is returned unchanged.
func Abs[T Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// SwapEndianness reverses the byte order of v.
func SwapEndianness[T Integer](v T) T {
	switch unsafe.Sizeof(v) {
	case 1:
		return v
	case 2:
		return T(bits.ReverseBytes16(uint16(v)))
	case 4:
		return T(bits.ReverseBytes32(uint32(v)))
	default:
		return T(bits.ReverseBytes64(uint64(v)))
	}
}

// IsLittleEndian reports whether the host stores integers least significant byte first.
func IsLittleEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}
