package store

import "errors"

var (
	// ErrNotFound indicates no record exists for the key.
	ErrNotFound = errors.New("store: record not found")

	// ErrEmptyKey indicates an empty record key.
	ErrEmptyKey = errors.New("store: key must not be empty")

	// ErrNilValue indicates an attempt to store a nil value.
	ErrNilValue = errors.New("store: value must not be nil")

	// ErrCodec indicates an entity could not be encoded or decoded.
	ErrCodec = errors.New("store: entity codec failure")

	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("store: unknown backend")
)
