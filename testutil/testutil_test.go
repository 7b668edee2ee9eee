package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGReproducible(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)
	assert.Equal(t, a.Bytes(64), b.Bytes(64))

	first := a.Bytes(16)
	a.Reset()
	a.Bytes(64)
	assert.Equal(t, first, a.Bytes(16))
	assert.Equal(t, int64(4711), a.Seed())
}

func TestPattern(t *testing.T) {
	p := Pattern(600)
	assert.Equal(t, byte(0), p[0])
	assert.Equal(t, byte(250), p[250])
	assert.Equal(t, byte(0), p[251])
}

func TestRandomWritesHaveNoGaps(t *testing.T) {
	rng := NewRNG(1)
	ops := rng.RandomWrites(100, 40)
	require.Len(t, ops, 100)

	var size int64
	for _, op := range ops {
		assert.LessOrEqual(t, op.Offset, size)
		assert.NotEmpty(t, op.Data)
		size = max(size, op.Offset+int64(len(op.Data)))
	}
	assert.Len(t, Apply(nil, ops), int(size))
}

func TestApply(t *testing.T) {
	got := Apply([]byte("hello"), []WriteOp{
		{Offset: 1, Data: []byte("EL")},
		{Offset: 5, Data: []byte("!!")},
	})
	assert.Equal(t, "hELlo!!", string(got))
}

func TestTempFile(t *testing.T) {
	path := TempFile(t, "x.bin", []byte("data"))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}
