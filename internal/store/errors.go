// ABOUTME: Error taxonomy for the account store
// ABOUTME: InvalidInputError for caller mistakes, StorageError for backend failures

package store

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches any *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ErrStorage matches any *StorageError via errors.Is.
var ErrStorage = errors.New("storage failure")

// InvalidInputError is returned when caller-supplied data violates a
// precondition. No storage access happens before it is returned.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) succeed.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StorageError wraps any failure of the backing database. Op names the store
// operation that failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) succeed.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
