// Package errs defines the error kinds shared by both tools and maps them to
// process exit codes. Library packages return these errors; only the binaries exit.
package errs

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a fatal error.
type Kind int

const (
	// KindUnknown is any error not created by this package.
	KindUnknown Kind = iota
	// KindUsage covers bad or missing command-line arguments.
	KindUsage
	// KindConfig covers invalid combinations of settings.
	KindConfig
	// KindFileSystem covers missing or unreadable directories and copy failures.
	KindFileSystem
	// KindArchive covers failures of the external archive step.
	KindArchive
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage error"
	case KindConfig:
		return "configuration error"
	case KindFileSystem:
		return "filesystem error"
	case KindArchive:
		return "archive error"
	default:
		return "error"
	}
}

// Error is a classified error with the operation and path it concerns.
type Error struct {
	Kind Kind
	Op   string // what was being done, e.g. "scan", "copy"
	Path string // optional
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Usage returns a usage error with a formatted message.
func Usage(format string, args ...any) error {
	return newError(KindUsage, "", "", fmt.Errorf(format, args...))
}

// Config returns a configuration error with a formatted message.
func Config(format string, args ...any) error {
	return newError(KindConfig, "", "", fmt.Errorf(format, args...))
}

// FileSystem wraps err as a filesystem error for op on path. A
// *fs.PathError about the same path is flattened so the path is printed once.
func FileSystem(op, path string, err error) error {
	if pe, ok := err.(*fs.PathError); ok && pe.Path == path { //nolint:errorlint // only the outermost error names the path
		err = fmt.Errorf("%s: %w", pe.Op, pe.Err)
	}
	return newError(KindFileSystem, op, path, err)
}

// Archive wraps err as an archive error for op on path.
func Archive(op, path string, err error) error {
	return newError(KindArchive, op, path, err)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps an error to the process exit status.
// Usage errors exit with 2, every other failure with 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case KindOf(err) == KindUsage:
		return 2
	default:
		return 1
	}
}
