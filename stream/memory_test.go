package stream

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ReadWriteSeek(t *testing.T) {
	m := NewMemory([]byte("hello"))
	assert.Equal(t, int64(5), m.Length())

	m.SetPosition(5)
	_, err := m.Write([]byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(m.Bytes()))

	pos, err := m.Seek(-5, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	got, err := io.ReadAll(m)
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))

	m.MoveBackward(100)
	assert.Equal(t, int64(0), m.Position())
	m.MoveForward(100)
	assert.Equal(t, int64(11), m.Position())

	_, err = m.Seek(0, 7)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	m.Reset()
	assert.Equal(t, int64(0), m.Length())
}

func TestMemory_DoesNotAliasInput(t *testing.T) {
	src := []byte("abc")
	m := NewMemory(src)
	src[0] = 'x'
	assert.Equal(t, "abc", string(m.Bytes()))
}

func TestMemory_MoveClamping(t *testing.T) {
	assertMoveClamping(t, NewMemory(pattern(100)))
}

func TestMemory_SeekCurrentFromMiddle(t *testing.T) {
	m := NewMemory(pattern(10))
	m.SetPosition(5)

	pos, err := m.Seek(math.MaxInt64, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pos)

	pos, err = m.Seek(math.MinInt64, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}
