package catalog

import (
	"errors"
	"fmt"
)

var ErrPackageNotFound = errors.New("package not found")

// ValidationError reports a booking request rejected before touching the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failed query. Op names the operation for server-side logs.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
