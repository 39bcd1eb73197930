package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable means the backing file could not be opened, created or migrated.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrWriteFailed means a single insert did not commit. The table is unchanged.
	ErrWriteFailed = errors.New("write failed")

	// ErrReadFailed means the table could not be scanned.
	ErrReadFailed = errors.New("read failed")

	// ErrNotOpen is returned when an operation runs on a closed store.
	ErrNotOpen = errors.New("store is not open")
)

// Error wraps a failure with the operation that produced it.
//
// errors.Is matches both the Kind sentinel and the underlying cause:
//
//	if errors.Is(err, store.ErrWriteFailed) { ... }
type Error struct {
	// Op is the store operation, e.g. "open", "insert", "list".
	Op string

	// Kind is one of the Err* sentinels of this package.
	Kind error

	// Err is the underlying driver error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("store: %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind error, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}
