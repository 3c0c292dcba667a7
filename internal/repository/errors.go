package repository

import "errors"

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an insert hits a unique key.
	ErrAlreadyExists = errors.New("already exists")
	// ErrStorageUnavailable means the store could not be opened or written:
	// missing permissions, a lock held by another process, a read-only file.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrSchemaMissing means an expected table or column is absent.
	ErrSchemaMissing = errors.New("schema missing")
)
