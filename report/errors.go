package report

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every lookup miss: unknown record, package, node or log.
var ErrNotFound = errors.New("not found")

// NotFoundKind ...
type NotFoundKind string

// const ...
const (
	KindRecord  NotFoundKind = "record"
	KindPackage NotFoundKind = "package"
	KindNode    NotFoundKind = "node"
	KindLog     NotFoundKind = "log"
)

// NotFoundError tells what was missing.
type NotFoundError struct {
	Kind NotFoundKind
	Key  string
	// Cause is the underlying storage error for a missing log, if any.
	Cause error
}

// NewNotFoundError ...
func NewNotFoundError(kind NotFoundKind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s not found: %s: %s", e.Kind, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// Is ...
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// IsNotFound ...
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
