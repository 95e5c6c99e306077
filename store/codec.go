package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
)

// Encode serializes v into a Record under key.
func Encode(key string, v any) (Record, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return Record{}, fmt.Errorf("%w: encode %s: %w", ErrCodec, key, err)
	}
	return Record{Key: key, Value: buf.Bytes()}, nil
}

// Load reads and decodes the entity stored under key.
// It returns ErrNotFound when the key is absent.
func Load[T any](ctx context.Context, s Store, key string) (*T, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var v T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCodec, key, err)
	}
	return &v, nil
}

// Save encodes v and stores it under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	rec, err := Encode(key, v)
	if err != nil {
		return err
	}
	return s.Put(ctx, rec.Key, rec.Value)
}

// Batch accumulates encoded entities for a single PutBatch call.
type Batch struct {
	records []Record
	err     error
}

// Add encodes v under key. The first encoding error is kept and reported by Commit.
func (b *Batch) Add(key string, v any) {
	if b.err != nil {
		return
	}
	rec, err := Encode(key, v)
	if err != nil {
		b.err = err
		return
	}
	b.records = append(b.records, rec)
}

// Len returns the number of staged records.
func (b *Batch) Len() int { return len(b.records) }

// Commit writes the staged records atomically.
func (b *Batch) Commit(ctx context.Context, s Store) error {
	if b.err != nil {
		return b.err
	}
	if len(b.records) == 0 {
		return nil
	}
	return s.PutBatch(ctx, b.records)
}
