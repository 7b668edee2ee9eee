package platform

import (
	"io"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
)

// Billy implements Platform on top of a go-billy filesystem.
//
// With memfs it serves as an in-memory platform for tests; with osfs it routes
// through billy's os-backed files.
type Billy struct {
	fs billy.Filesystem
}

// NewBilly creates a Billy platform over fsys.
func NewBilly(fsys billy.Filesystem) *Billy {
	return &Billy{fs: fsys}
}

// Filesystem returns the wrapped billy filesystem.
func (b *Billy) Filesystem() billy.Filesystem {
	return b.fs
}

// Open implements Platform.Open.
func (b *Billy) Open(path string, mode OpenMode, write bool) (Handle, error) {
	flag := os.O_RDONLY
	if write || mode.Truncates() {
		flag = os.O_RDWR
	}

	switch mode {
	case Open, Append:
	case Create:
		flag |= os.O_CREATE | os.O_EXCL
	case CreateOrOverwrite:
		flag |= os.O_CREATE | os.O_TRUNC
	case OpenOrCreate:
		flag |= os.O_CREATE
	default:
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}

	f, err := b.fs.OpenFile(path, flag, 0o666)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}
	return &billyHandle{f: f}, nil
}

// Stat implements Platform.Stat.
func (b *Billy) Stat(path string) (FileInfo, error) {
	fi, err := b.fs.Stat(path)
	if err != nil {
		return FileInfo{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	return fileInfoFrom(fi), nil
}

type billyHandle struct {
	f      billy.File
	closed bool
}

func (h *billyHandle) ReadAt(p []byte, off int64) (int, error) {
	if h.closed {
		return 0, os.ErrClosed
	}
	n, err := h.f.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, &fs.PathError{Op: "readat", Path: h.f.Name(), Err: err}
	}
	return n, err
}

func (h *billyHandle) WriteAt(p []byte, off int64) (int, error) {
	if h.closed {
		return 0, os.ErrClosed
	}
	if wa, ok := h.f.(io.WriterAt); ok {
		n, err := wa.WriteAt(p, off)
		if err != nil {
			return n, &fs.PathError{Op: "writeat", Path: h.f.Name(), Err: err}
		}
		return n, nil
	}

	// billy files only expose a cursor; position it for this single transfer.
	if _, err := h.f.Seek(off, io.SeekStart); err != nil {
		return 0, &fs.PathError{Op: "seek", Path: h.f.Name(), Err: err}
	}
	n, err := h.f.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, &fs.PathError{Op: "write", Path: h.f.Name(), Err: err}
	}
	return n, nil
}

func (h *billyHandle) Sync() error {
	if h.closed {
		return os.ErrClosed
	}
	if s, ok := h.f.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

func (h *billyHandle) Close() error {
	if h.closed {
		return os.ErrClosed
	}
	h.closed = true
	return h.f.Close()
}
