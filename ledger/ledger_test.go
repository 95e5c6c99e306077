package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/revshare"
	"github.com/bitfsorg/libroyalty-go/safemath"
	"github.com/bitfsorg/libroyalty-go/store"
)

var fixedNow = time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

type fixture struct {
	st       *store.MemStore
	registry *revshare.Registry
	ledger   *Ledger
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	st := store.NewMemStore()
	locker := store.NewLocker()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	l, err := New(st, locker, opts...)
	require.NoError(t, err)
	return &fixture{st: st, registry: revshare.NewRegistry(st, locker), ledger: l}
}

func (f *fixture) split(t *testing.T, workID string) {
	t.Helper()
	_, err := f.registry.CreateSplit(context.Background(), workID, []revshare.Collaborator{
		{Address: identity.NewTestAddress(t), Name: "a", ShareBps: 10_000},
	})
	require.NoError(t, err)
}

// --- RecordRevenue tests ---

func TestRecordRevenue_Buckets(t *testing.T) {
	f := newFixture(t)
	f.split(t, "w")
	ctx := context.Background()

	_, err := f.ledger.RecordRevenue(ctx, "w", 30, SourceStreaming, "spotify")
	require.NoError(t, err)
	_, err = f.ledger.RecordRevenue(ctx, "w", 70, SourceSales, "store")
	require.NoError(t, err)
	entry, err := f.ledger.RecordRevenue(ctx, "w", 5, "sync", "")
	require.NoError(t, err)

	assert.Equal(t, uint64(105), entry.TotalRevenue)
	assert.Equal(t, uint64(30), entry.StreamingRevenue)
	assert.Equal(t, uint64(70), entry.SalesRevenue)
	assert.Equal(t, uint64(5), entry.OtherRevenue)
	require.Len(t, entry.Transactions, 3)
	assert.Equal(t, "spotify", entry.Transactions[0].Description)
	assert.Equal(t, fixedNow, entry.LastRevenueAt)

	got, err := f.ledger.GetEntry(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, entry.TotalRevenue, got.TotalRevenue)
	assert.True(t, fixedNow.Equal(got.CreatedAt))

	split, err := f.registry.GetSplit(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, uint64(105), split.TotalRevenueCollected)
	assert.True(t, fixedNow.Equal(split.LastRevenueAt))
}

func TestRecordRevenue_Commutative(t *testing.T) {
	type rec struct {
		amount uint64
		source string
	}
	orders := [][]rec{
		{{30, SourceStreaming}, {70, SourceSales}},
		{{70, SourceSales}, {30, SourceStreaming}},
	}

	var totals []uint64
	for i, order := range orders {
		t.Run(fmt.Sprintf("order %d", i), func(t *testing.T) {
			f := newFixture(t)
			f.split(t, "w")
			var entry *Entry
			for _, r := range order {
				var err error
				entry, err = f.ledger.RecordRevenue(context.Background(), "w", r.amount, r.source, "")
				require.NoError(t, err)
			}
			assert.Equal(t, uint64(30), entry.StreamingRevenue)
			assert.Equal(t, uint64(70), entry.SalesRevenue)
			assert.Equal(t, order[0].amount, entry.Transactions[0].Amount)
			totals = append(totals, entry.TotalRevenue)
		})
	}
	assert.Equal(t, []uint64{100, 100}, totals)
}

func TestRecordRevenue_Validation(t *testing.T) {
	tests := []struct {
		name        string
		amount      uint64
		source      string
		description string
		wantErr     error
	}{
		{"zero amount", 0, SourceSales, "", ErrInvalidAmount},
		{"long source", 1, strings.Repeat("s", MaxSourceLen+1), "", ErrStringTooLong},
		{"long description", 1, SourceSales, strings.Repeat("d", MaxDescriptionLen+1), ErrStringTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.split(t, "w")
			before := f.st.Len()

			_, err := f.ledger.RecordRevenue(context.Background(), "w", tt.amount, tt.source, tt.description)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.st.Len())
		})
	}
}

func TestRecordRevenue_BoundaryLengths(t *testing.T) {
	f := newFixture(t)
	f.split(t, "w")
	_, err := f.ledger.RecordRevenue(context.Background(), "w", 1,
		strings.Repeat("s", MaxSourceLen), strings.Repeat("d", MaxDescriptionLen))
	assert.NoError(t, err)
}

func TestRecordRevenue_MissingSplit(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.RecordRevenue(context.Background(), "nope", 1, SourceSales, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.ledger.GetEntry(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecordRevenue_OverflowLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"total", Entry{WorkID: "w", TotalRevenue: math.MaxUint64}},
		{"bucket", Entry{WorkID: "w", TotalRevenue: 10, SalesRevenue: math.MaxUint64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.split(t, "w")
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, f.st, store.LedgerKey("w"), tt.entry))

			_, err := f.ledger.RecordRevenue(ctx, "w", 1, SourceSales, "")
			require.ErrorIs(t, err, safemath.ErrOverflow)

			got, err := f.ledger.GetEntry(ctx, "w")
			require.NoError(t, err)
			assert.Equal(t, tt.entry.TotalRevenue, got.TotalRevenue)
			assert.Equal(t, tt.entry.SalesRevenue, got.SalesRevenue)
			assert.Empty(t, got.Transactions)

			split, err := f.registry.GetSplit(ctx, "w")
			require.NoError(t, err)
			assert.Zero(t, split.TotalRevenueCollected)
		})
	}
}

func TestRecordRevenue_SplitOverflowLeavesLedgerUnchanged(t *testing.T) {
	f := newFixture(t)
	f.split(t, "w")
	ctx := context.Background()

	split, err := f.registry.GetSplit(ctx, "w")
	require.NoError(t, err)
	split.TotalRevenueCollected = math.MaxUint64
	require.NoError(t, store.Save(ctx, f.st, store.SplitKey("w"), split))

	_, err = f.ledger.RecordRevenue(ctx, "w", 1, SourceSales, "")
	require.ErrorIs(t, err, safemath.ErrOverflow)

	_, err = f.ledger.GetEntry(ctx, "w")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- Transaction log tests ---

func TestRecordRevenue_RingBuffer(t *testing.T) {
	f := newFixture(t)
	f.split(t, "w")
	ctx := context.Background()

	var entry *Entry
	for i := 1; i <= MaxTransactions+5; i++ {
		var err error
		entry, err = f.ledger.RecordRevenue(ctx, "w", uint64(i), SourceStreaming, "")
		require.NoError(t, err)
	}

	require.Len(t, entry.Transactions, MaxTransactions)
	assert.Equal(t, uint64(6), entry.Transactions[0].Amount)
	assert.Equal(t, uint64(MaxTransactions+5), entry.Transactions[MaxTransactions-1].Amount)

	n := uint64(MaxTransactions + 5)
	assert.Equal(t, n*(n+1)/2, entry.TotalRevenue)
}

func TestRecordRevenue_CustomCapacity(t *testing.T) {
	f := newFixture(t, WithCapacity(3))
	f.split(t, "w")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := f.ledger.RecordRevenue(ctx, "w", uint64(i), SourceSales, "")
		require.NoError(t, err)
	}
	got, err := f.ledger.GetEntry(ctx, "w")
	require.NoError(t, err)
	require.Len(t, got.Transactions, 3)
	assert.Equal(t, []uint64{3, 4, 5}, []uint64{
		got.Transactions[0].Amount, got.Transactions[1].Amount, got.Transactions[2].Amount,
	})
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, n := range []int{0, -1, MaxTransactions + 1} {
		_, err := New(store.NewMemStore(), store.NewLocker(), WithCapacity(n))
		assert.ErrorIs(t, err, ErrInvalidCapacity, "capacity %d", n)
	}
}

func TestEntry_ApplyInvalidCapacity(t *testing.T) {
	e := NewEntry("w", fixedNow)
	err := e.Apply(Transaction{Amount: 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
	assert.Zero(t, e.TotalRevenue)
}

// --- Concurrency ---

func TestRecordRevenue_ConcurrentSameWork(t *testing.T) {
	f := newFixture(t)
	f.split(t, "a")
	f.split(t, "b")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			work := "a"
			if i%2 == 1 {
				work = "b"
			}
			if _, err := f.ledger.RecordRevenue(ctx, work, 10, SourceStreaming, ""); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	for _, work := range []string{"a", "b"} {
		entry, err := f.ledger.GetEntry(ctx, work)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), entry.TotalRevenue)
		split, err := f.registry.GetSplit(ctx, work)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), split.TotalRevenueCollected)
	}
}
