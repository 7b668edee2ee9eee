//go:build windows

package platform

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sys/windows"

	"github.com/hupe1980/zunderbolt/internal/conv"
)

// maxTransfer bounds a single ReadFile/WriteFile call, whose length is a DWORD.
const maxTransfer = 1 << 30

// Open implements Platform.Open with CreateFile.
func (OS) Open(path string, mode OpenMode, write bool) (Handle, error) {
	access := uint32(windows.GENERIC_READ)
	if write || mode.Truncates() {
		access |= windows.GENERIC_WRITE
	}

	var disposition uint32
	switch mode {
	case Open, Append:
		disposition = windows.OPEN_EXISTING
	case Create:
		disposition = windows.CREATE_NEW
	case CreateOrOverwrite:
		disposition = windows.CREATE_ALWAYS
	case OpenOrCreate:
		disposition = windows.OPEN_ALWAYS
	default:
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}

	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	share := uint32(windows.FILE_SHARE_READ | windows.FILE_SHARE_WRITE | windows.FILE_SHARE_DELETE)
	h, err := windows.CreateFile(name, access, share, nil, disposition, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}
	return &windowsHandle{h: h, name: path}, nil
}

func isTooLarge(err error) bool {
	return errors.Is(err, windows.ERROR_FILE_TOO_LARGE)
}

type windowsHandle struct {
	h      windows.Handle
	name   string
	closed bool
}

func (h *windowsHandle) overlapped(off int64) (*windows.Overlapped, error) {
	lo, hi, err := conv.SplitOffset(off)
	if err != nil {
		return nil, err
	}
	return &windows.Overlapped{Offset: lo, OffsetHigh: hi}, nil
}

func (h *windowsHandle) ReadAt(p []byte, off int64) (int, error) {
	if h.closed {
		return 0, os.ErrClosed
	}
	n := 0
	for n < len(p) {
		chunk := p[n:]
		if len(chunk) > maxTransfer {
			chunk = chunk[:maxTransfer]
		}
		ov, err := h.overlapped(off + int64(n))
		if err != nil {
			return n, &fs.PathError{Op: "read", Path: h.name, Err: err}
		}
		var done uint32
		err = windows.ReadFile(h.h, chunk, &done, ov)
		if err == windows.ERROR_HANDLE_EOF {
			return n, io.EOF
		}
		if err != nil {
			return n, &fs.PathError{Op: "read", Path: h.name, Err: err}
		}
		if done == 0 {
			return n, io.EOF
		}
		n += int(done)
	}
	return n, nil
}

func (h *windowsHandle) WriteAt(p []byte, off int64) (int, error) {
	if h.closed {
		return 0, os.ErrClosed
	}
	n := 0
	for n < len(p) {
		chunk := p[n:]
		if len(chunk) > maxTransfer {
			chunk = chunk[:maxTransfer]
		}
		ov, err := h.overlapped(off + int64(n))
		if err != nil {
			return n, &fs.PathError{Op: "write", Path: h.name, Err: err}
		}
		var done uint32
		if err := windows.WriteFile(h.h, chunk, &done, ov); err != nil {
			return n, &fs.PathError{Op: "write", Path: h.name, Err: err}
		}
		if done == 0 {
			return n, &fs.PathError{Op: "write", Path: h.name, Err: io.ErrShortWrite}
		}
		n += int(done)
	}
	return n, nil
}

func (h *windowsHandle) Sync() error {
	if h.closed {
		return os.ErrClosed
	}
	if err := windows.FlushFileBuffers(h.h); err != nil {
		return &fs.PathError{Op: "sync", Path: h.name, Err: err}
	}
	return nil
}

func (h *windowsHandle) Close() error {
	if h.closed {
		return os.ErrClosed
	}
	h.closed = true
	if err := windows.CloseHandle(h.h); err != nil {
		return &fs.PathError{Op: "close", Path: h.name, Err: err}
	}
	return nil
}
