// Package ledger aggregates revenue per work and keeps a bounded history of
// the revenue events behind the totals.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfsorg/libroyalty-go/revshare"
	"github.com/bitfsorg/libroyalty-go/store"
)

// Ledger records revenue against works that have a split.
type Ledger struct {
	store    store.Store
	locker   *store.Locker
	now      func() time.Time
	capacity int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithCapacity sets the per-entry transaction log capacity (1..MaxTransactions).
func WithCapacity(n int) Option {
	return func(l *Ledger) { l.capacity = n }
}

// New creates a ledger over st. locker must be shared with every other
// component writing the same store.
func New(st store.Store, locker *store.Locker, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:    st,
		locker:   locker,
		now:      func() time.Time { return time.Now().UTC() },
		capacity: MaxTransactions,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.capacity < 1 || l.capacity > MaxTransactions {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, l.capacity)
	}
	return l, nil
}

// Capacity returns the transaction log capacity.
func (l *Ledger) Capacity() int { return l.capacity }

// RecordRevenue adds amount to the work's ledger entry, creating it on first
// use, and bumps the split's revenue counters. Both entities are written
// together; any failure leaves both unchanged.
func (l *Ledger) RecordRevenue(ctx context.Context, workID string, amount uint64, source, description string) (*Entry, error) {
	tx := Transaction{
		Amount:      amount,
		Source:      source,
		Description: description,
	}
	if err := ValidateTransaction(tx); err != nil {
		return nil, err
	}

	ledgerKey, splitKey := store.LedgerKey(workID), store.SplitKey(workID)
	unlock := l.locker.Lock(ledgerKey, splitKey)
	defer unlock()

	split, err := store.Load[revshare.Split](ctx, l.store, splitKey)
	if err != nil {
		return nil, fmt.Errorf("split for %q: %w", workID, err)
	}

	now := l.now()
	entry, err := store.Load[Entry](ctx, l.store, ledgerKey)
	if errors.Is(err, store.ErrNotFound) {
		entry = NewEntry(workID, now)
	} else if err != nil {
		return nil, err
	}

	tx.Timestamp = now
	if err := entry.Apply(tx, l.capacity); err != nil {
		return nil, err
	}
	if err := split.AddRevenue(amount, now); err != nil {
		return nil, err
	}

	var b store.Batch
	b.Add(ledgerKey, entry)
	b.Add(splitKey, split)
	if err := b.Commit(ctx, l.store); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntry returns the ledger entry for workID or store.ErrNotFound.
func (l *Ledger) GetEntry(ctx context.Context, workID string) (*Entry, error) {
	return store.Load[Entry](ctx, l.store, store.LedgerKey(workID))
}
