package stream

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/zunderbolt/platform"
)

var (
	// ErrClosed is returned by operations on a stream that is not open.
	ErrClosed = errors.New("stream is not open")

	// ErrInvalidArgument is returned when an argument is out of range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrReadOnly is returned by Write on a stream without write access.
	ErrReadOnly = errors.New("stream is read-only")
)

// OpenMode selects how Open treats existing and missing files.
type OpenMode = platform.OpenMode

// Open modes.
const (
	Open              = platform.Open
	Create            = platform.Create
	CreateOrOverwrite = platform.CreateOrOverwrite
	OpenOrCreate      = platform.OpenOrCreate
	Append            = platform.Append
)

// ErrorCode classifies the outcome of Open.
type ErrorCode = platform.ErrorCode

// Open error codes.
const (
	Success        = platform.Success
	DoesNotExist   = platform.DoesNotExist
	AlreadyExists  = platform.AlreadyExists
	NoPermissions  = platform.NoPermissions
	FileIsTooLarge = platform.FileIsTooLarge
	Unknown        = platform.Unknown
)

// OpenError describes a failed or degraded Open.
//
// Code FileIsTooLarge is a warning: the stream is open but its length is
// clamped. Use IsWarning to tell it apart from failures.
type OpenError struct {
	Op   string
	Path string
	Mode OpenMode
	Code ErrorCode
	Err  error
}

func (e *OpenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s (%s): %s", e.Op, e.Path, e.Mode, e.Code)
	}
	return fmt.Sprintf("%s %s (%s): %s: %v", e.Op, e.Path, e.Mode, e.Code, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Is matches the sentinel that corresponds to the error code, so callers can
// test with errors.Is(err, fs.ErrNotExist) and friends.
func (e *OpenError) Is(target error) bool {
	switch e.Code {
	case DoesNotExist:
		return target == fs.ErrNotExist
	case AlreadyExists:
		return target == fs.ErrExist
	case NoPermissions:
		return target == fs.ErrPermission
	case FileIsTooLarge:
		return target == platform.ErrFileTooLarge
	default:
		return false
	}
}

// CodeOf returns the ErrorCode carried by err. nil maps to Success and errors
// that are not an *OpenError are classified by the platform.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var oe *OpenError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return platform.Classify(err)
}

// IsWarning reports whether err is a non-fatal Open condition.
func IsWarning(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe) && oe.Code == FileIsTooLarge
}
