package service

import (
	"errors"
	"fmt"
)

// Sentinel errors the handler layer maps onto HTTP statuses.
var (
	// ErrProductNotFound means no product matches the requested id.
	ErrProductNotFound = errors.New("product not found")

	// ErrAdminExists means bootstrap ran after the admin account was
	// already created.
	ErrAdminExists = errors.New("admin account already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers must not learn which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps an unexpected blob-storage failure. The record
// mutation it interrupted has not happened.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
