//go:build unix

package platform

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// Open implements Platform.Open with open(2).
func (OS) Open(path string, mode OpenMode, write bool) (Handle, error) {
	flags, err := unixFlags(mode, write)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	var fd int
	for {
		fd, err = unix.Open(path, flags|unix.O_CLOEXEC, 0o666)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}
	return &unixHandle{fd: fd, name: path}, nil
}

func unixFlags(mode OpenMode, write bool) (int, error) {
	access := unix.O_RDONLY
	if write || mode.Truncates() {
		access = unix.O_RDWR
	}

	switch mode {
	case Open, Append:
		return access, nil
	case Create:
		return access | unix.O_CREAT | unix.O_EXCL, nil
	case CreateOrOverwrite:
		return access | unix.O_CREAT | unix.O_TRUNC, nil
	case OpenOrCreate:
		return access | unix.O_CREAT, nil
	default:
		return 0, fs.ErrInvalid
	}
}

func isTooLarge(err error) bool {
	return errors.Is(err, unix.EFBIG) || errors.Is(err, unix.EOVERFLOW)
}

type unixHandle struct {
	fd   int
	name string
}

func (h *unixHandle) ReadAt(p []byte, off int64) (int, error) {
	if h.fd < 0 {
		return 0, os.ErrClosed
	}
	n := 0
	for n < len(p) {
		m, err := unix.Pread(h.fd, p[n:], off+int64(n))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return n, &fs.PathError{Op: "pread", Path: h.name, Err: err}
		}
		if m == 0 {
			return n, io.EOF
		}
		n += m
	}
	return n, nil
}

func (h *unixHandle) WriteAt(p []byte, off int64) (int, error) {
	if h.fd < 0 {
		return 0, os.ErrClosed
	}
	n := 0
	for n < len(p) {
		m, err := unix.Pwrite(h.fd, p[n:], off+int64(n))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return n, &fs.PathError{Op: "pwrite", Path: h.name, Err: err}
		}
		if m == 0 {
			return n, &fs.PathError{Op: "pwrite", Path: h.name, Err: io.ErrShortWrite}
		}
		n += m
	}
	return n, nil
}

func (h *unixHandle) Sync() error {
	if h.fd < 0 {
		return os.ErrClosed
	}
	if err := unix.Fsync(h.fd); err != nil {
		return &fs.PathError{Op: "fsync", Path: h.name, Err: err}
	}
	return nil
}

func (h *unixHandle) Close() error {
	if h.fd < 0 {
		return os.ErrClosed
	}
	fd := h.fd
	h.fd = -1
	if err := unix.Close(fd); err != nil {
		return &fs.PathError{Op: "close", Path: h.name, Err: err}
	}
	return nil
}
