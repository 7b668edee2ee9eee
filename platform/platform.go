package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// OpenMode selects how Open treats existing and missing files.
type OpenMode int

const (
	// Open opens an existing file. Position starts at 0.
	Open OpenMode = iota
	// Create creates a new file and fails if it exists.
	Create
	// CreateOrOverwrite creates the file, truncating it if it exists.
	CreateOrOverwrite
	// OpenOrCreate opens the file, creating it if missing.
	OpenOrCreate
	// Append opens an existing file. Position starts at the end.
	Append
)

func (m OpenMode) String() string {
	switch m {
	case Open:
		return "open"
	case Create:
		return "create"
	case CreateOrOverwrite:
		return "create-or-overwrite"
	case OpenOrCreate:
		return "open-or-create"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("OpenMode(%d)", int(m))
	}
}

// RequiresExisting reports whether the mode fails on a missing file.
func (m OpenMode) RequiresExisting() bool {
	return m == Open || m == Append
}

// RequiresMissing reports whether the mode fails on an existing file.
func (m OpenMode) RequiresMissing() bool {
	return m == Create
}

// Truncates reports whether the mode discards existing content.
func (m OpenMode) Truncates() bool {
	return m == CreateOrOverwrite
}

// Valid reports whether m is one of the defined modes.
func (m OpenMode) Valid() bool {
	return m >= Open && m <= Append
}

// ErrorCode classifies the outcome of an open.
type ErrorCode int

const (
	Success ErrorCode = iota
	DoesNotExist
	AlreadyExists
	NoPermissions
	FileIsTooLarge
	Unknown
)

func (c ErrorCode) String() string {
	switch c {
	case Success:
		return "success"
	case DoesNotExist:
		return "does not exist"
	case AlreadyExists:
		return "already exists"
	case NoPermissions:
		return "no permissions"
	case FileIsTooLarge:
		return "file is too large"
	default:
		return "unknown"
	}
}

// ErrFileTooLarge reports a file whose size or offset exceeds what the platform can address.
var ErrFileTooLarge = errors.New("file too large")

// Classify maps an error returned by this package to an ErrorCode.
func Classify(err error) ErrorCode {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, fs.ErrNotExist):
		return DoesNotExist
	case errors.Is(err, fs.ErrExist):
		return AlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return NoPermissions
	case errors.Is(err, ErrFileTooLarge), isTooLarge(err):
		return FileIsTooLarge
	default:
		return Unknown
	}
}

// FileInfo is the metadata a stream needs before opening a file.
type FileInfo struct {
	Name     string
	Size     int64
	ReadOnly bool
	ModTime  time.Time
}

func fileInfoFrom(fi fs.FileInfo) FileInfo {
	return FileInfo{
		Name:     fi.Name(),
		Size:     fi.Size(),
		ReadOnly: fi.Mode().Perm()&0o200 == 0,
		ModTime:  fi.ModTime(),
	}
}

// Platform opens files and reports their metadata.
type Platform interface {
	// Open opens path according to mode. write requests write access.
	// The OS append flag is never used; positioned writes land where they are aimed.
	Open(path string, mode OpenMode, write bool) (Handle, error)
	// Stat returns metadata for path. Missing files yield an error matching fs.ErrNotExist.
	Stat(path string) (FileInfo, error)
}

// Handle is an open file addressed by absolute offsets.
type Handle interface {
	// ReadAt reads len(p) bytes at off. A short read at end of file returns io.EOF.
	ReadAt(p []byte, off int64) (int, error)
	// WriteAt writes len(p) bytes at off, extending the file as needed.
	WriteAt(p []byte, off int64) (int, error)
	// Sync commits written data to stable storage.
	Sync() error
	// Close releases the handle.
	Close() error
}

// Exists reports whether path exists on p and returns its metadata.
func Exists(p Platform, path string) (bool, FileInfo, error) {
	info, err := p.Stat(path)
	switch {
	case err == nil:
		return true, info, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, FileInfo{}, nil
	default:
		return false, FileInfo{}, err
	}
}
