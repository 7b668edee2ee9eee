package codec

import (
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// None passes data through unchanged.
type None struct{}

// Name returns "none".
func (None) Name() string { return "none" }

// NewWriter implements Codec.
func (None) NewWriter(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil }

// NewReader implements Codec.
func (None) NewReader(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Zstd is the zstandard frame format.
type Zstd struct {
	// Level defaults to zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

// Name returns "zstd".
func (Zstd) Name() string { return "zstd" }

// NewWriter implements Codec.
func (z Zstd) NewWriter(w io.Writer) (io.WriteCloser, error) {
	level := z.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(level))
}

// NewReader implements Codec.
func (Zstd) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

// S2 is the S2 stream format, a faster Snappy extension.
type S2 struct{}

// Name returns "s2".
func (S2) Name() string { return "s2" }

// NewWriter implements Codec.
func (S2) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}

// NewReader implements Codec.
func (S2) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}

// LZ4 is the LZ4 frame format.
type LZ4 struct{}

// Name returns "lz4".
func (LZ4) Name() string { return "lz4" }

// NewWriter implements Codec.
func (LZ4) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

// NewReader implements Codec.
func (LZ4) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
