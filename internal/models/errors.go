package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPhoneNumber   = errors.New("invalid phone number format")
	ErrDuplicatePhoneNumber = errors.New("a contact with this phone number already exists")
	ErrContactNotFound      = errors.New("contact not found")
	ErrUpdateFailed         = errors.New("failed to update contact")
	ErrDeleteFailed         = errors.New("failed to delete contact")
	ErrStorageFailure       = errors.New("storage failure")
)

// ValidationError reports a missing or malformed input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a backend fault. It matches ErrStorageFailure with errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// NewStorageError wraps err, returning nil when err is nil
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
