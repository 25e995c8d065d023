package domain

import "errors"

var (
	// ErrNotFound reports that the addressed customer or order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey reports an id or phone number collision.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnavailable reports a storage target failure (network, schema, I/O).
	ErrUnavailable = errors.New("store unavailable")
	// ErrInvalidDraft reports input that failed validation before storage.
	ErrInvalidDraft = errors.New("invalid draft")
)
