package services

import "errors"

var (
	// ErrNotFound means an id did not resolve to a row.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller does not own the record.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyTitle means a required title was missing.
	ErrEmptyTitle = errors.New("title is required")
	// ErrEmptyDescription means a required description was missing.
	ErrEmptyDescription = errors.New("description is required")
)
