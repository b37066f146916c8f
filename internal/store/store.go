// Package store wraps all database access behind narrow interfaces so the
// service layer never touches gorm directly.
package store

import "errors"

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when an insert collides with an existing
// unique record.
var ErrAlreadyExists = errors.New("record already exists")
