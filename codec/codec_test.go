package codec

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zunderbolt/stream"
	"github.com/hupe1980/zunderbolt/testutil"
)

func sample() []byte {
	return []byte(strings.Repeat("zunderbolt buffered stream payload ", 2000))
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}

	c, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, Default.Name(), c.Name())

	_, err = ByName("brotli")
	assert.ErrorIs(t, err, ErrUnknownCodec)

	assert.Equal(t, []string{"lz4", "none", "s2", "zstd"}, Names())
}

func TestRoundTrip(t *testing.T) {
	data := sample()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)

			var compressed bytes.Buffer
			n, err := Compress(&compressed, bytes.NewReader(data), c)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), n)
			if name != "none" {
				assert.Less(t, compressed.Len(), len(data))
			}

			var out bytes.Buffer
			n, err = Decompress(&out, &compressed, c)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), n)
			assert.Equal(t, data, out.Bytes())
		})
	}
}

func TestRoundTripThroughFileStreams(t *testing.T) {
	dir := t.TempDir()
	data := sample()

	src, err := stream.OpenFile(filepath.Join(dir, "plain.bin"), stream.CreateOrOverwrite)
	require.NoError(t, err)
	_, err = src.Write(data)
	require.NoError(t, err)
	src.SetPosition(0)

	packed, err := stream.OpenFile(filepath.Join(dir, "plain.bin.zst"), stream.CreateOrOverwrite)
	require.NoError(t, err)
	_, err = Compress(packed, src, Zstd{})
	require.NoError(t, err)
	require.NoError(t, src.Close())

	packed.SetPosition(0)
	out := stream.NewMemory(nil)
	_, err = Decompress(out, packed, Zstd{})
	require.NoError(t, err)
	require.NoError(t, packed.Close())

	assert.Equal(t, data, out.Bytes())
}

func TestRoundTripIncompressible(t *testing.T) {
	data := testutil.NewRNG(11).Bytes(64 << 10)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)

			var compressed, out bytes.Buffer
			_, err = Compress(&compressed, bytes.NewReader(data), c)
			require.NoError(t, err)
			_, err = Decompress(&out, &compressed, c)
			require.NoError(t, err)
			assert.Equal(t, data, out.Bytes())
		})
	}
}

func TestDecompressCorrupt(t *testing.T) {
	for _, c := range []Codec{Zstd{}, S2{}, LZ4{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var out bytes.Buffer
			_, err := Decompress(&out, strings.NewReader("definitely not compressed"), c)
			assert.Error(t, err)
		})
	}
}
