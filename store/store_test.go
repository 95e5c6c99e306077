package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string
	Amount uint64
}

// openBackends returns one fresh instance of every backend.
func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	bolt, err := OpenBoltStore(filepath.Join(dir, "bolt", "test.db"))
	require.NoError(t, err)
	sqlite, err := OpenSQLiteStore(filepath.Join(dir, "sqlite", "test.sqlite"))
	require.NoError(t, err)

	backends := map[string]Store{
		BackendMemory: NewMemStore(),
		BackendBolt:   bolt,
		BackendSQLite: sqlite,
	}
	t.Cleanup(func() {
		for _, s := range backends {
			_ = s.Close()
		}
	})
	return backends
}

// --- Store contract tests ---

func TestStore_GetMissing(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "k", []byte("v1")))
			require.NoError(t, s.Put(ctx, "k", []byte("v2")))

			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)
		})
	}
}

func TestStore_PutBatch(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.PutBatch(ctx, []Record{
				{Key: "a", Value: []byte("1")},
				{Key: "b", Value: []byte("2")},
			})
			require.NoError(t, err)

			for key, want := range map[string]string{"a": "1", "b": "2"} {
				got, err := s.Get(ctx, key)
				require.NoError(t, err)
				assert.Equal(t, want, string(got))
			}
		})
	}
}

func TestStore_PutBatchRejectsInvalidRecordAtomically(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.PutBatch(ctx, []Record{
				{Key: "good", Value: []byte("1")},
				{Key: "", Value: []byte("2")},
			})
			require.ErrorIs(t, err, ErrEmptyKey)

			_, err = s.Get(ctx, "good")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Put(ctx, "k", []byte("v")), context.Canceled)
			_, err := s.Get(ctx, "k")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestBoltStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, Save(ctx, s, SplitKey("w1"), sample{Name: "x", Amount: 7}))
	require.NoError(t, s.Close())

	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := Load[sample](ctx, s, SplitKey("w1"))
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "x", Amount: 7}, *got)
}

// --- Codec tests ---

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, Save(ctx, s, LedgerKey("w"), sample{Name: "track", Amount: 100}))

	got, err := Load[sample](ctx, s, LedgerKey("w"))
	require.NoError(t, err)
	assert.Equal(t, "track", got.Name)
	assert.Equal(t, uint64(100), got.Amount)

	_, err = Load[sample](ctx, s, LedgerKey("missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.Put(ctx, "bad", []byte{0xff, 0x00}))

	_, err := Load[sample](ctx, s, "bad")
	assert.ErrorIs(t, err, ErrCodec)
}

func TestBatch_Commit(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	var b Batch
	b.Add(TokenKey("t1"), sample{Amount: 1})
	b.Add(AllocationKey("w", "addr"), sample{Amount: 2})
	assert.Equal(t, 2, b.Len())
	require.NoError(t, b.Commit(ctx, s))
	assert.Equal(t, 2, s.Len())

	var empty Batch
	require.NoError(t, empty.Commit(ctx, s))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("etcd", t.TempDir())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

// --- Locker tests ---

func TestLocker_SerializesSameKey(t *testing.T) {
	l := NewLocker()
	s := NewMemStore()
	ctx := context.Background()
	require.NoError(t, Save(ctx, s, "counter", sample{}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("counter", "other")
			defer unlock()

			cur, err := Load[sample](ctx, s, "counter")
			if err != nil {
				t.Error(err)
				return
			}
			cur.Amount++
			if err := Save(ctx, s, "counter", cur); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := Load[sample](ctx, s, "counter")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), got.Amount)
}

func TestLocker_DuplicateKeysAndDoubleUnlock(t *testing.T) {
	l := NewLocker()
	unlock := l.Lock("a", "a", "b")
	unlock()
	unlock()

	// Locks are released and garbage collected.
	unlock = l.Lock("b", "a")
	unlock()
	assert.Empty(t, l.locks)
}
