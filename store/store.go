// Package store persists ledger entities as opaque records keyed by name.
//
// The contract is deliberately small: Get, Put and PutBatch. Backends offer
// last-write-wins per key; PutBatch is the only multi-key operation and every
// backend applies it atomically. Serialising read-modify-write cycles on the
// same entity is the caller's job, see Locker.
package store

import (
	"context"
	"sync"
)

// Store is the entity store consumed by the ledger components.
type Store interface {
	// Get returns the record stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous record.
	Put(ctx context.Context, key string, value []byte) error

	// PutBatch stores all records atomically: either every record is
	// written or none is.
	PutBatch(ctx context.Context, records []Record) error

	// Close releases backend resources.
	Close() error
}

// Record is a single keyed value written by PutBatch.
type Record struct {
	Key   string
	Value []byte
}

// MemStore is an in-memory implementation of Store for tests and embedded use.
type MemStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string][]byte)}
}

// Get returns a copy of the record stored under key.
func (s *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put stores a copy of value under key.
func (s *MemStore) Put(ctx context.Context, key string, value []byte) error {
	return s.PutBatch(ctx, []Record{{Key: key, Value: value}})
}

// PutBatch stores all records under a single lock.
func (s *MemStore) PutBatch(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range records {
		if err := validateRecord(r); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		v := make([]byte, len(r.Value))
		copy(v, r.Value)
		s.records[r.Key] = v
	}
	return nil
}

// Len returns the number of stored records.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

func validateRecord(r Record) error {
	if err := validateKey(r.Key); err != nil {
		return err
	}
	if r.Value == nil {
		return ErrNilValue
	}
	return nil
}
