package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"time"

	"github.com/hupe1980/zunderbolt"
	"github.com/hupe1980/zunderbolt/internal/arena"
	"github.com/hupe1980/zunderbolt/internal/contract"
	"github.com/hupe1980/zunderbolt/internal/conv"
	"github.com/hupe1980/zunderbolt/platform"
)

// FileStream is a buffered, positioned file stream.
//
// The stream caches one contiguous window of the file,
// [bufferStart, bufferStart+buf.Len()]. Reads fill the window from the file
// and writes land in it without touching the file. The window is written
// back in one call when the position leaves it, on Flush and on Close.
//
// A FileStream is not safe for concurrent use.
type FileStream struct {
	opts options
	log  *zunderbolt.Logger

	buf    *arena.Linear
	handle platform.Handle

	path        string
	mode        OpenMode
	bufferStart int64
	fileSize    int64
	position    int64

	open     bool
	writable bool
	pending  bool
}

// New creates an unopened stream with a preallocated cache.
func New(opts ...Option) (*FileStream, error) {
	o := applyOptions(opts)
	s := &FileStream{opts: o, log: o.logger}
	if err := s.allocate(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenFile creates a stream and opens path with mode.
//
// A FileIsTooLarge warning is returned together with the usable stream.
func OpenFile(path string, mode OpenMode, opts ...Option) (*FileStream, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Open(path, mode); err != nil {
		if IsWarning(err) {
			return s, err
		}
		_ = s.Release()
		return nil, err
	}
	return s, nil
}

func (s *FileStream) allocate() error {
	aopts := []arena.Option{
		arena.WithAlignment(s.opts.alignment),
		arena.WithGrowthPolicy(arena.GrowthPolicy{Factor: s.opts.growthFactor}),
	}
	if s.opts.controller != nil {
		aopts = append(aopts, arena.WithMemoryAcquirer(s.opts.controller))
	}
	buf, err := arena.NewLinear(s.opts.bufferSize, aopts...)
	if err != nil {
		return fmt.Errorf("allocate stream buffer: %w", err)
	}
	s.buf = buf
	return nil
}

// Open binds the stream to path. An open stream is closed first.
//
// Failures are returned as *OpenError and leave the stream unopened. A file
// larger than the addressable limit opens with its length clamped and an
// *OpenError with code FileIsTooLarge; see IsWarning.
func (s *FileStream) Open(path string, mode OpenMode) (err error) {
	if !mode.Valid() {
		return &OpenError{Op: "open", Path: path, Mode: mode, Code: Unknown, Err: ErrInvalidArgument}
	}
	if s.open {
		if err := s.Close(); err != nil {
			return fmt.Errorf("close %s before reopen: %w", s.path, err)
		}
	}
	if s.buf == nil {
		if err := s.allocate(); err != nil {
			return err
		}
	}

	defer func() {
		failed := err
		if IsWarning(err) {
			failed = nil
		}
		s.opts.metrics.RecordOpen(mode.String(), failed)
		s.log.LogOpen(context.Background(), path, mode.String(), s.fileSize, failed)
	}()

	exists, info, err := platform.Exists(s.opts.platform, path)
	if err != nil {
		return newOpenError(path, mode, err)
	}

	switch {
	case mode.RequiresExisting() && !exists:
		return &OpenError{Op: "open", Path: path, Mode: mode, Code: DoesNotExist, Err: fs.ErrNotExist}
	case mode.RequiresMissing() && exists:
		return &OpenError{Op: "open", Path: path, Mode: mode, Code: AlreadyExists, Err: fs.ErrExist}
	}

	if exists && mode.Truncates() {
		contract.Require(!info.ReadOnly, "%s on read-only file %s", mode, path)
		if info.ReadOnly || s.opts.readOnly {
			return &OpenError{Op: "open", Path: path, Mode: mode, Code: NoPermissions, Err: fs.ErrPermission}
		}
	}

	writable := !s.opts.readOnly && !(exists && info.ReadOnly)
	h, err := s.opts.platform.Open(path, mode, writable)
	if err != nil {
		return newOpenError(path, mode, err)
	}

	size := info.Size
	if !exists || mode.Truncates() {
		size = 0
	}

	var warning error
	if size > s.opts.maxAddressable {
		warning = &OpenError{Op: "open", Path: path, Mode: mode, Code: FileIsTooLarge, Err: platform.ErrFileTooLarge}
		s.log.Warn("file exceeds addressable range, length clamped",
			"path", path,
			"size", size,
			"limit", s.opts.maxAddressable,
		)
		size = s.opts.maxAddressable
	}

	s.handle = h
	s.path = path
	s.mode = mode
	s.open = true
	s.writable = writable
	s.pending = false
	s.fileSize = size
	s.position = 0
	if mode == Append {
		s.position = size
	}
	s.buf.Reset()
	s.bufferStart = s.position

	return warning
}

func newOpenError(path string, mode OpenMode, err error) *OpenError {
	return &OpenError{Op: "open", Path: path, Mode: mode, Code: platform.Classify(err), Err: err}
}

func (s *FileStream) checkOpen(op string) error {
	contract.Require(s.open, "%s on a stream that is not open", op)
	if !s.open {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return nil
}

func (s *FileStream) inWindow() bool {
	return s.position >= s.bufferStart && s.position <= s.bufferStart+int64(s.buf.Len())
}

// prepareWindow makes sure the position lies in the window and the cache can
// hold n bytes from it. It returns the position relative to the window.
func (s *FileStream) prepareWindow(n int) (int, error) {
	if !s.inWindow() {
		if err := s.Flush(); err != nil {
			return 0, err
		}
	}

	off, err := conv.Int64ToInt(s.position - s.bufferStart)
	if err != nil {
		return 0, err
	}

	if limit := s.opts.maxWindow; limit > 0 && s.buf.Len() > 0 && off+n > limit {
		if err := s.Flush(); err != nil {
			return 0, err
		}
		off = 0
	}

	if err := s.grow(off + n); err != nil {
		return 0, err
	}
	return off, nil
}

func (s *FileStream) grow(required int) error {
	grows := s.buf.Stats().Grows
	if err := s.buf.Reserve(required); err != nil {
		return fmt.Errorf("grow buffer of %s to %d bytes: %w", s.path, required, err)
	}
	if s.buf.Stats().Grows != grows {
		s.opts.metrics.RecordBufferGrow(s.buf.Cap())
		s.log.Debug("buffer grown", "path", s.path, "required", required, "capacity", s.buf.Cap())
	}
	return nil
}

// Read reads up to len(p) bytes at the current position.
//
// Requests past the end of the stream are clamped; at the end Read returns
// 0, io.EOF. At most one physical read is issued, covering only the bytes
// missing from the cache. If it fails nothing is copied, the position does
// not move and the cache is left as it was.
func (s *FileStream) Read(p []byte) (int, error) {
	if err := s.checkOpen("read"); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	remaining := s.fileSize - s.position
	if remaining <= 0 {
		return 0, io.EOF
	}
	n := len(p)
	if int64(n) > remaining {
		n = int(remaining)
		s.log.Debug("read clamped at end of stream",
			"path", s.path,
			"requested", len(p),
			"served", n,
		)
		s.opts.metrics.RecordReadClamp(len(p), n)
	}

	off, err := s.prepareWindow(n)
	if err != nil {
		return 0, err
	}

	end := off + n
	if cached := s.buf.Len(); end > cached {
		tail, err := s.buf.Alloc(end - cached)
		if err != nil {
			return 0, err
		}
		at := s.bufferStart + int64(cached)
		start := time.Now()
		got, err := s.handle.ReadAt(tail, at)
		s.opts.metrics.RecordPhysicalRead(got, time.Since(start), err)
		if err != nil {
			s.buf.Truncate(cached)
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return 0, fmt.Errorf("read %s at offset %d: %w", s.path, at, err)
		}
	}

	copy(p, s.buf.Bytes()[off:end])
	s.position += int64(n)
	return n, nil
}

// Write stores p in the cache at the current position and advances it,
// extending the stream when writing past its end. No physical I/O happens
// unless the position had left the window.
func (s *FileStream) Write(p []byte) (int, error) {
	if err := s.checkOpen("write"); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if !s.writable {
		return 0, fmt.Errorf("write %s: %w", s.path, ErrReadOnly)
	}

	off, err := s.prepareWindow(len(p))
	if err != nil {
		return 0, err
	}

	end := off + len(p)
	if cached := s.buf.Len(); end > cached {
		if _, err := s.buf.Alloc(end - cached); err != nil {
			return 0, err
		}
	}

	copy(s.buf.Bytes()[off:end], p)
	s.pending = true
	s.position += int64(len(p))
	if s.position > s.fileSize {
		s.fileSize = s.position
	}
	return len(p), nil
}

// Flush writes a dirty window to the file in one call and resets the window
// to the current position. A clean window is only reset. On failure the
// stream is left unchanged and still dirty.
func (s *FileStream) Flush() error {
	if err := s.checkOpen("flush"); err != nil {
		return err
	}

	if s.pending {
		contract.Require(s.writable, "pending write on read-only stream %s", s.path)
		window := s.buf.Bytes()
		start := time.Now()
		n, err := s.handle.WriteAt(window, s.bufferStart)
		s.opts.metrics.RecordPhysicalWrite(n, time.Since(start), err)
		s.log.LogFlush(context.Background(), s.path, s.bufferStart, len(window), err)
		if err != nil {
			return fmt.Errorf("flush %s at offset %d: %w", s.path, s.bufferStart, err)
		}
		s.pending = false
	}

	s.buf.Reset()
	s.bufferStart = s.position
	return nil
}

// Sync flushes the window and commits the file to stable storage.
func (s *FileStream) Sync() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.handle.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	return nil
}

// SetPosition moves to pos, clamped to [0, Length()].
func (s *FileStream) SetPosition(pos int64) {
	if s.checkOpen("set position") != nil {
		return
	}
	s.position = max(0, min(pos, s.fileSize))
}

// MoveForward advances the position by n, stopping at Length().
// A negative n moves backward, stopping at 0.
func (s *FileStream) MoveForward(n int64) {
	if s.checkOpen("move forward") != nil {
		return
	}
	s.position = moveBy(s.position, s.fileSize, n)
}

// MoveBackward moves the position back by n, stopping at 0.
// A negative n moves forward, stopping at Length().
func (s *FileStream) MoveBackward(n int64) {
	if s.checkOpen("move backward") != nil {
		return
	}
	if n == math.MinInt64 {
		s.position = s.fileSize
		return
	}
	s.position = moveBy(s.position, s.fileSize, -n)
}

// moveBy returns pos+n clamped to [0, size] without overflowing.
// pos must lie in [0, size].
func moveBy(pos, size, n int64) int64 {
	if n >= 0 {
		if n > size-pos {
			return size
		}
		return pos + n
	}
	if n < -pos {
		return 0
	}
	return pos + n
}

// Seek implements io.Seeker. The resulting position is clamped to
// [0, Length()] rather than rejected.
func (s *FileStream) Seek(offset int64, whence int) (int64, error) {
	if err := s.checkOpen("seek"); err != nil {
		return 0, err
	}
	switch whence {
	case io.SeekStart:
		s.SetPosition(offset)
	case io.SeekCurrent:
		s.MoveForward(offset)
	case io.SeekEnd:
		s.SetPosition(s.fileSize)
		s.MoveForward(offset)
	default:
		return s.position, fmt.Errorf("seek whence %d: %w", whence, ErrInvalidArgument)
	}
	return s.position, nil
}

// Position returns the offset of the next byte to read or write.
func (s *FileStream) Position() int64 { return s.position }

// Length returns the logical size, including writes not yet flushed.
func (s *FileStream) Length() int64 { return s.fileSize }

// Path returns the bound path, or "" when unopened.
func (s *FileStream) Path() string { return s.path }

// Mode returns the mode the stream was opened with.
func (s *FileStream) Mode() OpenMode { return s.mode }

// IsOpen reports whether the stream is bound to a file.
func (s *FileStream) IsOpen() bool { return s.open }

// Writable reports whether the stream accepts writes.
func (s *FileStream) Writable() bool { return s.writable }

// WritePending reports whether the cache holds bytes not yet written to the file.
func (s *FileStream) WritePending() bool { return s.pending }

// BufferCapacity returns the allocated cache capacity in bytes.
func (s *FileStream) BufferCapacity() int {
	if s.buf == nil {
		return 0
	}
	return s.buf.Cap()
}

// Close flushes a dirty window and closes the file. If either step fails the
// error is returned and the stream stays open, so Close can be retried.
// Closing an unopened stream is logged and ignored.
func (s *FileStream) Close() error {
	if !s.open {
		s.log.Warn("close on a stream that is not open")
		return nil
	}

	if s.pending {
		if err := s.Flush(); err != nil {
			return err
		}
	}

	// A handle whose earlier Close failed may already be released; a retry
	// then reports fs.ErrClosed and the stream can finish closing.
	if err := s.handle.Close(); err != nil && !errors.Is(err, fs.ErrClosed) {
		s.log.LogClose(context.Background(), s.path, err)
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	s.log.LogClose(context.Background(), s.path, nil)

	s.handle = nil
	s.path = ""
	s.open = false
	s.writable = false
	s.bufferStart, s.position, s.fileSize = 0, 0, 0
	s.buf.Reset()
	return nil
}

// Release closes the stream and frees its cache, returning the memory to the
// controller budget. The stream may be opened again afterwards.
func (s *FileStream) Release() error {
	if s.open {
		if err := s.Close(); err != nil {
			return err
		}
	}
	if s.buf != nil {
		s.buf.Free()
		s.buf = nil
	}
	return nil
}

// CopyTo copies n bytes from srcOffset in s to dstOffset in dst. See Copy.
func (s *FileStream) CopyTo(ctx context.Context, dst Writable, srcOffset, dstOffset, n int64, opts ...CopyOption) (CopyResult, error) {
	return Copy(ctx, dst, s, srcOffset, dstOffset, n, opts...)
}
