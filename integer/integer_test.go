package integer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, 5, Abs(-5))
	assert.Equal(t, 5, Abs(5))
	assert.Equal(t, int8(0), Abs(int8(0)))
	assert.Equal(t, int64(math.MaxInt64), Abs(int64(-math.MaxInt64)))
	assert.Equal(t, int8(math.MinInt8), Abs(int8(math.MinInt8)))
}

func TestSwapEndianness(t *testing.T) {
	t.Run("uint8 unchanged", func(t *testing.T) {
		assert.Equal(t, uint8(0xAB), SwapEndianness(uint8(0xAB)))
	})

	t.Run("uint16", func(t *testing.T) {
		assert.Equal(t, uint16(0xFFFE), SwapEndianness(uint16(0xFEFF)))
	})

	t.Run("uint32 byte order mark", func(t *testing.T) {
		assert.Equal(t, uint32(0xFFFE0000), SwapEndianness(uint32(0x0000FEFF)))
	})

	t.Run("uint64", func(t *testing.T) {
		assert.Equal(t, uint64(0x0807060504030201), SwapEndianness(uint64(0x0102030405060708)))
	})

	t.Run("signed round trip", func(t *testing.T) {
		v := int32(-123456)
		assert.Equal(t, v, SwapEndianness(SwapEndianness(v)))
	})

	t.Run("matches byte order conversion", func(t *testing.T) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], 0xDEADBEEF)
		assert.Equal(t, binary.BigEndian.Uint32(b[:]), SwapEndianness(uint32(0xDEADBEEF)))
	})
}

func TestIsLittleEndian(t *testing.T) {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], 1)
	assert.Equal(t, b[0] == 1, IsLittleEndian())
}
