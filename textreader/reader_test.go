package textreader

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/hupe1980/zunderbolt/stream"
	"github.com/hupe1980/zunderbolt/testutil"
)

func encode(t *testing.T, enc encoding.Encoding, s string) []byte {
	t.Helper()
	b, err := enc.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func readLines(t *testing.T, r *Reader[*stream.Memory]) []string {
	t.Helper()
	var lines []string
	for line, err := range r.Lines() {
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

func TestDetectBOM(t *testing.T) {
	tests := []struct {
		head    []byte
		want    Encoding
		wantLen int
	}{
		{[]byte{0xFF, 0xFE, 0x00, 0x00}, UTF32LE, 4},
		{[]byte{0x00, 0x00, 0xFE, 0xFF}, UTF32BE, 4},
		{[]byte{0xFF, 0xFE, 'a', 0x00}, UTF16LE, 2},
		{[]byte{0xFE, 0xFF, 0x00, 'a'}, UTF16BE, 2},
		{[]byte{0xFF, 0xFE}, UTF16LE, 2},
		{[]byte{0xEF, 0xBB, 0xBF, 'a'}, UTF8, 3},
		{[]byte("abcd"), UTF8, 0},
		{[]byte{0xFF}, UTF8, 0},
		{nil, UTF8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, n := DetectBOM(tt.head)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLen, n)
		})
	}
}

func TestReader_UTF8Lines(t *testing.T) {
	src := stream.NewMemory([]byte("alpha\r\nbeta\n\ngamma"))
	r, err := New(src)
	require.NoError(t, err)
	assert.Equal(t, UTF8, r.Encoding())

	assert.Equal(t, []string{"alpha", "beta", "", "gamma"}, readLines(t, r))

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_SkipsUTF8BOM(t *testing.T) {
	src := stream.NewMemory(append([]byte{0xEF, 0xBB, 0xBF}, "one\ntwo\n"...))
	r, err := New(src)
	require.NoError(t, err)
	assert.Equal(t, int64(3), src.Position())
	assert.Equal(t, []string{"one", "two"}, readLines(t, r))
}

func TestReader_Encodings(t *testing.T) {
	text := "héllo\r\nwörld ✓\nlast"
	tests := []struct {
		want Encoding
		enc  encoding.Encoding
	}{
		{UTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
		{UTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
		{UTF32LE, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)},
		{UTF32BE, utf32.UTF32(utf32.BigEndian, utf32.UseBOM)},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			for _, chunk := range []int{4, 8, DefaultChunkSize} {
				src := stream.NewMemory(encode(t, tt.enc, text))
				r, err := New(src, WithChunkSize(chunk))
				require.NoError(t, err)
				assert.Equal(t, tt.want, r.Encoding())
				assert.Equal(t, int64(len(tt.want.BOM())), src.Position())
				assert.Equal(t, []string{"héllo", "wörld ✓", "last"}, readLines(t, r))
			}
		})
	}
}

func TestReader_PositionAfterLine(t *testing.T) {
	raw := encode(t, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), "ab\ncd\n")
	src := stream.NewMemory(raw)

	r, err := New(src)
	require.NoError(t, err)

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
	// BOM (2) + "ab\n" (3 units of 2 bytes).
	assert.Equal(t, int64(8), src.Position())
}

func TestReader_KeepsNonZeroPosition(t *testing.T) {
	raw := append([]byte{0xFF, 0xFE}, encode(t, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "xy\nz")...)
	src := stream.NewMemory(raw)
	src.SetPosition(6)

	r, err := New(src)
	require.NoError(t, err)
	assert.Equal(t, UTF16LE, r.Encoding())
	assert.Equal(t, int64(6), src.Position())

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "", line)
	rest, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "z", rest)
}

func TestReader_WithEncoding(t *testing.T) {
	src := stream.NewMemory([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	r, err := New(src, WithEncoding(UTF8))
	require.NoError(t, err)
	assert.Equal(t, int64(0), src.Position())

	all, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "\ufeffhi", all)
}

func TestReader_Empty(t *testing.T) {
	r, err := New(stream.NewMemory(nil))
	require.NoError(t, err)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)

	all, err := r.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReader_FileStreamSource(t *testing.T) {
	raw := encode(t, utf32.UTF32(utf32.BigEndian, utf32.UseBOM), "first\nsecond\n")
	path := testutil.TempFile(t, "text.txt", raw)

	fs, err := stream.OpenFile(path, stream.Open, stream.WithBufferSize(16))
	require.NoError(t, err)
	defer fs.Close()

	r, err := New(fs, WithChunkSize(12))
	require.NoError(t, err)
	assert.Equal(t, UTF32BE, r.Encoding())

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "first", line)
	assert.Equal(t, int64(4+6*4), fs.Position())

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}
