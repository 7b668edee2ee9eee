package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Check value from RFC 3720, B.4: 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
}

func TestStreamingMatchesOneShot(t *testing.T) {
	data := []byte("buffered file streams copy in batches")

	h := NewCRC32C()
	_, _ = h.Write(data[:10])
	_, _ = h.Write(data[10:])
	assert.Equal(t, CRC32C(data), h.Sum32())

	crc := UpdateCRC32C(0, data[:7])
	crc = UpdateCRC32C(crc, data[7:])
	assert.Equal(t, CRC32C(data), crc)
}
