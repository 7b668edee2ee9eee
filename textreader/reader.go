package textreader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"golang.org/x/text/encoding"
)

// DefaultChunkSize is the number of raw bytes requested per source read.
const DefaultChunkSize = 4096

// Source is the stream contract the reader consumes.
type Source interface {
	Length() int64
	Position() int64
	SetPosition(pos int64)
	Read(p []byte) (int, error)
	MoveBackward(n int64)
	MoveForward(n int64)
}

type options struct {
	chunkSize int
	encoding  *Encoding
}

// Option configures a Reader.
type Option func(*options)

// WithChunkSize sets the raw read size. It is rounded down to a multiple of 4.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n >= 4 {
			o.chunkSize = n &^ 3
		}
	}
}

// WithEncoding skips detection and decodes as e. A leading mark is not skipped.
func WithEncoding(e Encoding) Option {
	return func(o *options) {
		o.encoding = &e
	}
}

// Reader decodes lines of text from a stream.
type Reader[S Source] struct {
	src     S
	enc     Encoding
	decoder *encoding.Decoder
	chunk   []byte
	nl      []byte
}

// New creates a Reader over src and detects its encoding from a leading byte
// order mark. The source position is kept, except that a mark at position 0
// is skipped.
func New[S Source](src S, opts ...Option) (*Reader[S], error) {
	o := options{chunkSize: DefaultChunkSize}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	r := &Reader[S]{
		src:   src,
		chunk: make([]byte, o.chunkSize),
	}

	if o.encoding != nil {
		r.enc = *o.encoding
	} else {
		enc, bomLen, err := detect(src)
		if err != nil {
			return nil, err
		}
		r.enc = enc
		if src.Position() == 0 {
			src.MoveForward(int64(bomLen))
		}
	}

	r.decoder = r.enc.textEncoding().NewDecoder()
	r.nl = r.enc.newline()
	return r, nil
}

func detect(src Source) (Encoding, int, error) {
	pos := src.Position()
	defer src.SetPosition(pos)

	var head [4]byte
	src.SetPosition(0)
	n, err := io.ReadFull(src, head[:min(4, src.Length())])
	if err != nil && !errors.Is(err, io.EOF) {
		return UTF8, 0, fmt.Errorf("detect encoding: %w", err)
	}
	enc, bomLen := DetectBOM(head[:n])
	return enc, bomLen, nil
}

// Encoding returns the detected or configured encoding.
func (r *Reader[S]) Encoding() Encoding {
	return r.enc
}

// ReadLine returns the next line without its terminator (\n or \r\n),
// decoded to UTF-8. It returns io.EOF when no bytes remain. The source is
// left positioned right after the consumed terminator.
func (r *Reader[S]) ReadLine() (string, error) {
	var raw []byte
	unit := r.enc.UnitSize()

	for {
		remaining := r.src.Length() - r.src.Position()
		if remaining <= 0 {
			break
		}
		chunk := r.chunk[:min(int64(len(r.chunk)), remaining)]
		n, err := r.src.Read(chunk)
		if n == 0 {
			if err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			break
		}
		chunk = chunk[:n]

		// Search from the start of the partial unit carried in raw.
		from := len(raw) - len(raw)%unit
		raw = append(raw, chunk...)
		if i := indexUnit(raw[from:], r.nl, unit); i >= 0 {
			end := from + i + len(r.nl)
			r.src.MoveBackward(int64(len(raw) - end))
			return r.decode(raw[:from+i], true)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
	}

	if len(raw) == 0 {
		return "", io.EOF
	}
	return r.decode(raw, false)
}

// indexUnit finds sep at a code unit boundary.
func indexUnit(b, sep []byte, unit int) int {
	for off := 0; ; {
		i := bytes.Index(b[off:], sep)
		if i < 0 {
			return -1
		}
		if (off+i)%unit == 0 {
			return off + i
		}
		off += i + 1
	}
}

func (r *Reader[S]) decode(raw []byte, terminated bool) (string, error) {
	out, err := r.decoder.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", r.enc, err)
	}
	if terminated {
		out = bytes.TrimSuffix(out, []byte{'\r'})
	}
	return string(out), nil
}

// ReadAll decodes everything from the current position to the end.
func (r *Reader[S]) ReadAll() (string, error) {
	var raw []byte
	for {
		remaining := r.src.Length() - r.src.Position()
		if remaining <= 0 {
			break
		}
		chunk := r.chunk[:min(int64(len(r.chunk)), remaining)]
		n, err := r.src.Read(chunk)
		raw = append(raw, chunk[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if n == 0 {
			break
		}
	}
	return r.decode(raw, false)
}

// Lines iterates over the remaining lines. Iteration stops after the first
// error, which is yielded with an empty line.
func (r *Reader[S]) Lines() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := r.ReadLine()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}
