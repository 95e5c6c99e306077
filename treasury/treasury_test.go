package treasury

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/safemath"
	"github.com/bitfsorg/libroyalty-go/store"
	"github.com/bitfsorg/libroyalty-go/transfer"
)

type fixture struct {
	svc       *Service
	book      *transfer.Book
	authority identity.Address
	feeDest   identity.Address
	payout    identity.Address
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		book:      transfer.NewBook(),
		authority: identity.NewTestAddress(t),
		feeDest:   identity.NewTestAddress(t),
		payout:    identity.NewTestAddress(t),
	}
	f.svc = NewService(store.NewMemStore(), store.NewLocker(), f.book,
		WithClock(func() time.Time { return fixedNow }))
	return f
}

func (f *fixture) init(t *testing.T) *Config {
	t.Helper()
	cfg, err := f.svc.Init(context.Background(), f.authority, f.feeDest, f.payout)
	require.NoError(t, err)
	return cfg
}

func ptr[T any](v T) *T { return &v }

// --- Init / Get ---

func TestInit_Defaults(t *testing.T) {
	f := newFixture(t)
	cfg := f.init(t)

	assert.Equal(t, f.authority, cfg.Authority)
	assert.Equal(t, f.feeDest, cfg.FeeDestination)
	assert.Equal(t, f.payout, cfg.PayoutAccount)
	assert.True(t, cfg.StreamingProvider.IsZero())
	assert.Equal(t, DefaultMintFee, cfg.MintFee)
	assert.Equal(t, DefaultPlatformFeeBps, cfg.PlatformFeeBps)
	assert.Zero(t, cfg.TotalFeesCollected)
	assert.Equal(t, fixedNow, cfg.CreatedAt)

	got, err := f.svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.Authority, got.Authority)
	assert.True(t, fixedNow.Equal(got.UpdatedAt))
}

func TestInit_Once(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	_, err := f.svc.Init(context.Background(), f.feeDest, f.feeDest, f.payout)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	got, err := f.svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.authority, got.Authority)
}

func TestInit_InvalidAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Init(context.Background(), "bogus", f.feeDest, f.payout)
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func TestInit_CustomDefaults(t *testing.T) {
	f := newFixture(t)
	svc := NewService(store.NewMemStore(), store.NewLocker(), f.book,
		WithDefaults(Defaults{MintFee: 1, PlatformFeeBps: 250}))
	cfg, err := svc.Init(context.Background(), f.authority, f.feeDest, f.payout)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.MintFee)
	assert.Equal(t, uint16(250), cfg.PlatformFeeBps)
}

func TestGet_NotInitialized(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

// --- UpdateConfig ---

func TestUpdateConfig(t *testing.T) {
	newDest := identity.NewTestAddress(t)

	tests := []struct {
		name    string
		caller  func(f *fixture) identity.Address
		update  Update
		wantErr error
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:   "fee rate only",
			caller: func(f *fixture) identity.Address { return f.authority },
			update: Update{PlatformFeeBps: ptr(uint16(1000))},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, uint16(1000), cfg.PlatformFeeBps)
				assert.Equal(t, DefaultMintFee, cfg.MintFee)
			},
		},
		{
			name:   "all fields",
			caller: func(f *fixture) identity.Address { return f.authority },
			update: Update{MintFee: ptr(uint64(7)), PlatformFeeBps: ptr(uint16(10_000)), FeeDestination: &newDest},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, uint64(7), cfg.MintFee)
				assert.Equal(t, uint16(10_000), cfg.PlatformFeeBps)
				assert.Equal(t, newDest, cfg.FeeDestination)
			},
		},
		{
			name:    "fee above 100%",
			caller:  func(f *fixture) identity.Address { return f.authority },
			update:  Update{MintFee: ptr(uint64(7)), PlatformFeeBps: ptr(uint16(10_001))},
			wantErr: ErrInvalidFee,
		},
		{
			name:    "not authority",
			caller:  func(f *fixture) identity.Address { return f.feeDest },
			update:  Update{MintFee: ptr(uint64(7))},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "empty caller",
			caller:  func(*fixture) identity.Address { return "" },
			update:  Update{MintFee: ptr(uint64(7))},
			wantErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.init(t)
			ctx := context.Background()

			cfg, err := f.svc.UpdateConfig(ctx, tt.caller(f), tt.update)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				got, err := f.svc.Get(ctx)
				require.NoError(t, err)
				assert.Equal(t, DefaultMintFee, got.MintFee)
				assert.Equal(t, DefaultPlatformFeeBps, got.PlatformFeeBps)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)

			got, err := f.svc.Get(ctx)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestUpdateConfig_NotInitialized(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateConfig(context.Background(), f.authority, Update{})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

// --- SetStreamingProvider ---

func TestSetStreamingProvider(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()
	provider := identity.NewTestAddress(t)

	_, err := f.svc.SetStreamingProvider(ctx, provider, provider)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.SetStreamingProvider(ctx, f.authority, "")
	assert.ErrorIs(t, err, ErrInvalidAccount)

	cfg, err := f.svc.SetStreamingProvider(ctx, f.authority, provider)
	require.NoError(t, err)
	assert.Equal(t, provider, cfg.StreamingProvider)
}

// --- WithdrawFunds ---

func TestWithdrawFunds(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()
	require.NoError(t, f.book.Credit(f.payout, 500))

	assert.ErrorIs(t, f.svc.WithdrawFunds(ctx, f.authority, 0), ErrInvalidAmount)
	assert.ErrorIs(t, f.svc.WithdrawFunds(ctx, f.feeDest, 100), ErrUnauthorized)
	assert.ErrorIs(t, f.svc.WithdrawFunds(ctx, f.authority, 501), ErrInsufficientFunds)

	require.NoError(t, f.svc.WithdrawFunds(ctx, f.authority, 500))

	payout, err := f.book.Balance(ctx, f.payout)
	require.NoError(t, err)
	dest, err := f.book.Balance(ctx, f.feeDest)
	require.NoError(t, err)
	assert.Zero(t, payout)
	assert.Equal(t, uint64(500), dest)
}

func TestWithdrawFunds_NotInitialized(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.WithdrawFunds(context.Background(), f.authority, 1), ErrNotInitialized)
}

// --- AddFees ---

func TestAddFees(t *testing.T) {
	got, err := AddFees(10, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), got)

	_, err = AddFees(math.MaxUint64, 1)
	assert.ErrorIs(t, err, safemath.ErrOverflow)
}
