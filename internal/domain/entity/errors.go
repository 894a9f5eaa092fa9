package entity

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorKind classifies filesystem failures into the categories reported to the user.
type ErrorKind int

const (
	// KindIOError is the catch-all for host failures that fit no other kind.
	KindIOError ErrorKind = iota
	KindNotFound
	KindNotADirectory
	KindAlreadyExists
	KindPermissionDenied
	// KindCrossDeviceFallback is informational: a move completed by copy and delete.
	KindCrossDeviceFallback
	KindUnsupportedFormat
)

// Sentinel errors, one per kind. An *FSError matches the sentinel of its kind under errors.Is.
var (
	ErrIOError             = errors.New("i/o error")
	ErrNotFound            = errors.New("not found")
	ErrNotADirectory       = errors.New("not a directory")
	ErrAlreadyExists       = errors.New("already exists")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCrossDeviceFallback = errors.New("cross-device fallback")
	ErrUnsupportedFormat   = errors.New("unsupported format")
)

var kindNames = map[ErrorKind]string{
	KindIOError:             "IOError",
	KindNotFound:            "NotFound",
	KindNotADirectory:       "NotADirectory",
	KindAlreadyExists:       "AlreadyExists",
	KindPermissionDenied:    "PermissionDenied",
	KindCrossDeviceFallback: "CrossDeviceFallback",
	KindUnsupportedFormat:   "UnsupportedFormat",
}

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel returns the package-level error value for the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindNotADirectory:
		return ErrNotADirectory
	case KindAlreadyExists:
		return ErrAlreadyExists
	case KindPermissionDenied:
		return ErrPermissionDenied
	case KindCrossDeviceFallback:
		return ErrCrossDeviceFallback
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	default:
		return ErrIOError
	}
}

// FSError describes a failed filesystem operation with its classification.
type FSError struct {
	Op   string    // Operation name, e.g. "list" or "chmod"
	Path string    // Path the operation was applied to
	Kind ErrorKind // Classification of the failure
	Err  error     // Underlying host error, may be nil
}

// NewFSError builds an FSError of an explicit kind.
func NewFSError(op, path string, kind ErrorKind, err error) *FSError {
	return &FSError{Op: op, Path: path, Kind: kind, Err: err}
}

// WrapFSError classifies err and wraps it. A nil err yields nil.
// Errors that are already an *FSError keep their kind.
func WrapFSError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fsErr *FSError
	if errors.As(err, &fsErr) {
		return err
	}
	return &FSError{Op: op, Path: path, Kind: Classify(err), Err: err}
}

func (e *FSError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
}

func (e *FSError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's kind.
func (e *FSError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// Classify maps a host filesystem error onto the error taxonomy.
func Classify(err error) ErrorKind {
	var fsErr *FSError
	switch {
	case err == nil:
		return KindIOError
	case errors.As(err, &fsErr):
		return fsErr.Kind
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrExist):
		return KindAlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, syscall.ENOTDIR):
		return KindNotADirectory
	case errors.Is(err, syscall.EXDEV):
		return KindCrossDeviceFallback
	default:
		return KindIOError
	}
}

// KindOf returns the kind carried by err, classifying host errors on the fly.
func KindOf(err error) ErrorKind {
	return Classify(err)
}

// IsCrossDevice reports whether err is a rename failure caused by source and
// destination living on different devices.
func IsCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
