package stream

import (
	"fmt"
	"io"
	"math"
)

// Memory is an in-memory stream. It satisfies Readable, Writable and the
// text reader source contract, and is handy as a copy target or in tests.
type Memory struct {
	buf []byte
	pos int64
}

// NewMemory creates a Memory stream holding a copy of data, positioned at 0.
func NewMemory(data []byte) *Memory {
	buf := make([]byte, len(data), max(len(data), 64))
	copy(buf, data)
	return &Memory{buf: buf}
}

// Write implements io.Writer, overwriting and extending the content.
func (m *Memory) Write(p []byte) (n int, err error) {
	minCap := int(m.pos) + len(p)
	if minCap > cap(m.buf) {
		newCap := cap(m.buf) * 2
		if newCap < minCap {
			newCap = minCap
		}
		newBuf := make([]byte, len(m.buf), newCap)
		copy(newBuf, m.buf)
		m.buf = newBuf
	}
	if minCap > len(m.buf) {
		m.buf = m.buf[:minCap]
	}
	n = copy(m.buf[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

// Read implements io.Reader.
func (m *Memory) Read(p []byte) (n int, err error) {
	if m.pos >= int64(len(m.buf)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n = copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

// Seek implements io.Seeker with the same clamping as FileStream.
func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.SetPosition(offset)
	case io.SeekCurrent:
		m.MoveForward(offset)
	case io.SeekEnd:
		m.pos = int64(len(m.buf))
		m.MoveForward(offset)
	default:
		return m.pos, fmt.Errorf("seek whence %d: %w", whence, ErrInvalidArgument)
	}
	return m.pos, nil
}

// Length returns the content size.
func (m *Memory) Length() int64 { return int64(len(m.buf)) }

// Position returns the current offset.
func (m *Memory) Position() int64 { return m.pos }

// SetPosition moves to pos, clamped to [0, Length()].
func (m *Memory) SetPosition(pos int64) {
	m.pos = max(0, min(pos, int64(len(m.buf))))
}

// MoveForward advances the position by n, stopping at Length().
// A negative n moves backward, stopping at 0.
func (m *Memory) MoveForward(n int64) {
	m.pos = moveBy(m.pos, int64(len(m.buf)), n)
}

// MoveBackward moves the position back by n, stopping at 0.
// A negative n moves forward, stopping at Length().
func (m *Memory) MoveBackward(n int64) {
	if n == math.MinInt64 {
		m.pos = int64(len(m.buf))
		return
	}
	m.pos = moveBy(m.pos, int64(len(m.buf)), -n)
}

// Bytes returns the content. The slice aliases the stream.
func (m *Memory) Bytes() []byte {
	return m.buf
}

// Reset clears the content.
func (m *Memory) Reset() {
	m.buf = m.buf[:0]
	m.pos = 0
}
