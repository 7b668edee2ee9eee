// Package codec provides streaming compression codecs for moving data between
// streams.
//
// Codecs are selected by a stable name so command line tools and config can
// refer to them.
package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrUnknownCodec is returned by ByName for names that are not registered.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec wraps readers and writers with a compression format.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the stable codec name.
	Name() string
	// NewWriter returns a writer compressing into w. Close flushes the frame
	// but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader returns a reader decompressing from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var registry = map[string]Codec{
	None{}.Name(): None{},
	Zstd{}.Name(): Zstd{},
	S2{}.Name():   S2{},
	LZ4{}.Name():  LZ4{},
}

// Default is the codec used when none is named.
var Default Codec = Zstd{}

// ByName returns a built-in codec by its stable name. An empty name selects Default.
func ByName(name string) (Codec, error) {
	if name == "" {
		return Default, nil
	}
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Names lists the built-in codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compress copies src into dst through c and returns the number of
// uncompressed bytes consumed.
func Compress(dst io.Writer, src io.Reader, c Codec) (int64, error) {
	w, err := c.NewWriter(dst)
	if err != nil {
		return 0, fmt.Errorf("%s: new writer: %w", c.Name(), err)
	}
	n, err := io.Copy(w, src)
	if err != nil {
		_ = w.Close()
		return n, fmt.Errorf("%s: compress: %w", c.Name(), err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("%s: finish frame: %w", c.Name(), err)
	}
	return n, nil
}

// Decompress copies the decompressed content of src into dst and returns the
// number of bytes written.
func Decompress(dst io.Writer, src io.Reader, c Codec) (int64, error) {
	r, err := c.NewReader(src)
	if err != nil {
		return 0, fmt.Errorf("%s: new reader: %w", c.Name(), err)
	}
	defer r.Close()

	n, err := io.Copy(dst, r)
	if err != nil {
		return n, fmt.Errorf("%s: decompress: %w", c.Name(), err)
	}
	return n, nil
}
