// Package engineerr defines the error taxonomy the cohort engine returns to
// its callers, modeled on hercules's habit of wrapping go-git and I/O errors
// with github.com/pkg/errors rather than inventing a bespoke error stack.
package engineerr

import "github.com/pkg/errors"

// ConfigError reports an invalid repository path or a head with no
// reachable commits.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "config: " + e.msg }

// NewConfigError wraps msg into a ConfigError.
func NewConfigError(msg string) error { return &ConfigError{msg: msg} }

// ObjectError reports a missing or corrupt git object.
type ObjectError struct {
	cause error
	what  string
}

func (e *ObjectError) Error() string { return "object: " + e.what }
func (e *ObjectError) Unwrap() error { return e.cause }

// WrapObjectError annotates cause as an ObjectError.
func WrapObjectError(cause error, what string) error {
	if cause == nil {
		return nil
	}
	return &ObjectError{cause: errors.WithStack(cause), what: what}
}

// DiffError reports a diff application that would violate the file-length
// invariant (spec.md §4.3's "length mismatch after application").
type DiffError struct {
	Path     string
	CommitID string
	msg      string
}

func (e *DiffError) Error() string {
	return "diff: " + e.Path + "@" + e.CommitID + ": " + e.msg
}

// NewDiffError builds a DiffError for the given path/commit pair.
func NewDiffError(path, commitID, msg string) error {
	return &DiffError{Path: path, CommitID: commitID, msg: msg}
}

// IOError reports a serialization failure.
type IOError struct {
	cause error
}

func (e *IOError) Error() string { return "io: " + e.cause.Error() }
func (e *IOError) Unwrap() error { return e.cause }

// WrapIOError annotates cause as an IOError.
func WrapIOError(cause error) error {
	if cause == nil {
		return nil
	}
	return &IOError{cause: errors.WithStack(cause)}
}

// ErrCancelled is returned when a run is aborted via cooperative
// cancellation (spec.md §5's global cancellation flag).
var ErrCancelled = errors.New("cancelled")
