package platform

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOS_OpenModes(t *testing.T) {
	tests := []struct {
		mode     OpenMode
		exists   bool
		wantCode ErrorCode
		wantSize int64
	}{
		{Open, true, Success, 5},
		{Open, false, DoesNotExist, -1},
		{Create, true, AlreadyExists, 5},
		{Create, false, Success, 0},
		{CreateOrOverwrite, true, Success, 0},
		{CreateOrOverwrite, false, Success, 0},
		{OpenOrCreate, true, Success, 5},
		{OpenOrCreate, false, Success, 0},
		{Append, true, Success, 5},
		{Append, false, DoesNotExist, -1},
	}

	for _, tt := range tests {
		name := tt.mode.String()
		if tt.exists {
			name += "/exists"
		} else {
			name += "/absent"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f.bin")
			if tt.exists {
				require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
			}

			h, err := Default.Open(path, tt.mode, true)
			assert.Equal(t, tt.wantCode, Classify(err))
			if err == nil {
				require.NoError(t, h.Close())
			}

			info, statErr := Default.Stat(path)
			if tt.wantSize < 0 {
				assert.ErrorIs(t, statErr, os.ErrNotExist)
				return
			}
			require.NoError(t, statErr)
			assert.Equal(t, tt.wantSize, info.Size)
		})
	}
}

func TestOS_ReadWriteAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rw.bin")

	h, err := Default.Open(path, CreateOrOverwrite, true)
	require.NoError(t, err)

	n, err := h.WriteAt([]byte("world"), 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = h.WriteAt([]byte("hello "), 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	buf := make([]byte, 11)
	n, err = h.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, "hello world", string(buf))

	n, err = h.ReadAt(buf, 6)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 5, n)

	require.NoError(t, h.Sync())
	require.NoError(t, h.Close())
	assert.ErrorIs(t, h.Close(), os.ErrClosed)

	_, err = h.ReadAt(buf, 0)
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestOS_AppendDoesNotUseOSAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.bin")
	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o644))

	h, err := Default.Open(path, Append, true)
	require.NoError(t, err)
	defer h.Close()

	// A positioned write inside the file must overwrite, not append.
	_, err = h.WriteAt([]byte("XY"), 1)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aXYdef", string(data))
}

func TestOS_StatReadOnly(t *testing.T) {
	dir := t.TempDir()

	rw := filepath.Join(dir, "rw.bin")
	require.NoError(t, os.WriteFile(rw, []byte("x"), 0o644))
	info, err := Default.Stat(rw)
	require.NoError(t, err)
	assert.False(t, info.ReadOnly)
	assert.Equal(t, "rw.bin", info.Name)

	ro := filepath.Join(dir, "ro.bin")
	require.NoError(t, os.WriteFile(ro, []byte("x"), 0o444))
	info, err = Default.Stat(ro)
	require.NoError(t, err)
	assert.True(t, info.ReadOnly)

	ok, _, err := Exists(Default, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}
