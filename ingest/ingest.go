// Package ingest applies batches of streaming revenue reported by the
// configured streaming provider across many works.
//
// Records whose work has no ledger entry or no split are skipped and reported
// as such. Any arithmetic overflow fails the whole call before anything is
// written. The aggregated platform fee is transferred once, from the provider
// to the fee destination, before the staged updates are committed.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/ledger"
	"github.com/bitfsorg/libroyalty-go/revshare"
	"github.com/bitfsorg/libroyalty-go/safemath"
	"github.com/bitfsorg/libroyalty-go/store"
	"github.com/bitfsorg/libroyalty-go/transfer"
	"github.com/bitfsorg/libroyalty-go/treasury"
)

// DefaultMaxBatchSize is the largest batch accepted by default.
const DefaultMaxBatchSize = 50

// Ingestor applies revenue batches.
type Ingestor struct {
	store        store.Store
	locker       *store.Locker
	funds        transfer.Transferer
	now          func() time.Time
	maxBatchSize int
	capacity     int
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(in *Ingestor) { in.now = now }
}

// WithMaxBatchSize overrides DefaultMaxBatchSize.
func WithMaxBatchSize(n int) Option {
	return func(in *Ingestor) { in.maxBatchSize = n }
}

// WithCapacity sets the transaction log capacity used when appending to
// ledger entries. It should match the ledger's.
func WithCapacity(n int) Option {
	return func(in *Ingestor) { in.capacity = n }
}

// New creates an ingestor. locker must be shared with every other component
// writing the same store.
func New(st store.Store, locker *store.Locker, funds transfer.Transferer, opts ...Option) *Ingestor {
	in := &Ingestor{
		store:        st,
		locker:       locker,
		funds:        funds,
		now:          func() time.Time { return time.Now().UTC() },
		maxBatchSize: DefaultMaxBatchSize,
		capacity:     ledger.MaxTransactions,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// staged holds the working copies of one work's entities.
type staged struct {
	entry *ledger.Entry
	split *revshare.Split
}

// IngestBatch applies records on behalf of caller, who must be the
// treasury's streaming provider.
func (in *Ingestor) IngestBatch(ctx context.Context, caller identity.Address, records []Record) (*Result, error) {
	if err := in.validate(records); err != nil {
		return nil, err
	}

	keys := []string{store.TreasuryKey()}
	for _, r := range records {
		keys = append(keys, store.LedgerKey(r.WorkID), store.SplitKey(r.WorkID))
	}
	unlock := in.locker.Lock(keys...)
	defer unlock()

	cfg, err := treasury.Load(ctx, in.store)
	if err != nil {
		return nil, err
	}
	if !cfg.StreamingProvider.Matches(caller) {
		return nil, fmt.Errorf("%w: %s is not the streaming provider", treasury.ErrUnauthorized, caller)
	}

	now := in.now()
	description := "Batch streaming revenue from " + caller.String()
	works := make(map[string]*staged)
	skipped := make(map[string]string)
	res := &Result{Outcomes: make([]Outcome, 0, len(records))}

	for _, r := range records {
		w, reason, err := in.lookup(ctx, works, skipped, r.WorkID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			res.Outcomes = append(res.Outcomes, Outcome{Record: r, Status: Skipped, Reason: reason})
			res.Skipped++
			continue
		}

		fee, err := safemath.ApplyBps(r.Amount, cfg.PlatformFeeBps)
		if err != nil {
			return nil, fmt.Errorf("record for %q: %w", r.WorkID, err)
		}
		total, err := safemath.Add(res.TotalFee, fee)
		if err != nil {
			return nil, fmt.Errorf("batch fee: %w", err)
		}
		tx := ledger.Transaction{
			Amount:      r.Amount,
			Source:      ledger.SourceStreaming,
			Description: description,
			Timestamp:   now,
		}
		if err := w.entry.Apply(tx, in.capacity); err != nil {
			return nil, fmt.Errorf("record for %q: %w", r.WorkID, err)
		}
		if err := w.split.AddRevenue(r.Amount, now); err != nil {
			return nil, fmt.Errorf("record for %q: %w", r.WorkID, err)
		}

		res.TotalFee = total
		res.Outcomes = append(res.Outcomes, Outcome{Record: r, Status: Applied, Fee: fee})
		res.Applied++
	}

	fees, err := treasury.AddFees(cfg.TotalFeesCollected, res.TotalFee)
	if err != nil {
		return nil, fmt.Errorf("treasury fees: %w", err)
	}
	if res.Applied == 0 {
		return res, nil
	}

	if res.TotalFee > 0 {
		if err := in.funds.Transfer(ctx, caller, cfg.FeeDestination, res.TotalFee); err != nil {
			return nil, fmt.Errorf("batch fee transfer: %w", err)
		}
	}

	var b store.Batch
	for workID, w := range works {
		b.Add(store.LedgerKey(workID), w.entry)
		b.Add(store.SplitKey(workID), w.split)
	}
	if res.TotalFee > 0 {
		cfg.TotalFeesCollected = fees
		b.Add(store.TreasuryKey(), cfg)
	}
	if err := b.Commit(ctx, in.store); err != nil {
		if res.TotalFee > 0 {
			return nil, fmt.Errorf("%w: %w", ErrIncomplete, err)
		}
		return nil, err
	}
	return res, nil
}

func (in *Ingestor) validate(records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalidBatch)
	}
	if len(records) > in.maxBatchSize {
		return fmt.Errorf("%w: %d records, max %d", ErrInvalidBatch, len(records), in.maxBatchSize)
	}
	for i, r := range records {
		if r.Amount == 0 {
			return fmt.Errorf("%w: record %d has zero amount", ErrInvalidBatch, i)
		}
		if r.WorkID == "" {
			return fmt.Errorf("%w: record %d has empty work ID", ErrInvalidBatch, i)
		}
	}
	return nil
}

// lookup returns the staged entities for workID, loading them on first use.
// A nil result with a reason means the work is skipped.
func (in *Ingestor) lookup(ctx context.Context, works map[string]*staged, skipped map[string]string, workID string) (*staged, string, error) {
	if w, ok := works[workID]; ok {
		return w, "", nil
	}
	if reason, ok := skipped[workID]; ok {
		return nil, reason, nil
	}

	entry, err := store.Load[ledger.Entry](ctx, in.store, store.LedgerKey(workID))
	if errors.Is(err, store.ErrNotFound) {
		skipped[workID] = ReasonNoLedger
		return nil, ReasonNoLedger, nil
	} else if err != nil {
		return nil, "", err
	}
	split, err := store.Load[revshare.Split](ctx, in.store, store.SplitKey(workID))
	if errors.Is(err, store.ErrNotFound) {
		skipped[workID] = ReasonNoSplit
		return nil, ReasonNoSplit, nil
	} else if err != nil {
		return nil, "", err
	}

	w := &staged{entry: entry, split: split}
	works[workID] = w
	return w, "", nil
}
