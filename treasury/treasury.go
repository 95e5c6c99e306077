// Package treasury holds the process-wide fee configuration: the authority
// allowed to change it, where fees go, the platform fee rate and the running
// total of fees collected. The configuration is a single entity in the store,
// created once by Init and mutated only by its authority.
package treasury

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/safemath"
	"github.com/bitfsorg/libroyalty-go/store"
	"github.com/bitfsorg/libroyalty-go/transfer"
)

const (
	// DefaultMintFee is the mint fee set by Init.
	DefaultMintFee uint64 = 10_000_000

	// DefaultPlatformFeeBps is the platform fee rate set by Init (5%).
	DefaultPlatformFeeBps uint16 = 500
)

// Config is the treasury singleton.
type Config struct {
	Authority          identity.Address
	FeeDestination     identity.Address
	StreamingProvider  identity.Address // zero until set; ingestion is refused meanwhile
	PayoutAccount      identity.Address
	MintFee            uint64
	PlatformFeeBps     uint16
	TotalFeesCollected uint64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Defaults are the fee values a fresh treasury starts with.
type Defaults struct {
	MintFee        uint64
	PlatformFeeBps uint16
}

// Update carries optional changes for UpdateConfig. Nil fields are left alone.
type Update struct {
	MintFee        *uint64
	PlatformFeeBps *uint16
	FeeDestination *identity.Address
}

// Service manages the treasury entity.
type Service struct {
	store    store.Store
	locker   *store.Locker
	funds    transfer.Funds
	now      func() time.Time
	defaults Defaults
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaults overrides the fee values used by Init.
func WithDefaults(d Defaults) Option {
	return func(s *Service) { s.defaults = d }
}

// NewService creates a treasury service. funds is used for withdrawals.
func NewService(st store.Store, locker *store.Locker, funds transfer.Funds, opts ...Option) *Service {
	s := &Service{
		store:  st,
		locker: locker,
		funds:  funds,
		now:    func() time.Time { return time.Now().UTC() },
		defaults: Defaults{
			MintFee:        DefaultMintFee,
			PlatformFeeBps: DefaultPlatformFeeBps,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the treasury entity. Callers composing multi-entity updates
// must hold the lock on store.TreasuryKey().
func Load(ctx context.Context, st store.Store) (*Config, error) {
	cfg, err := store.Load[Config](ctx, st, store.TreasuryKey())
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	return cfg, err
}

// AddFees returns current + fee, failing with safemath.ErrOverflow.
func AddFees(current, fee uint64) (uint64, error) {
	return safemath.Add(current, fee)
}

// Init creates the treasury once.
func (s *Service) Init(ctx context.Context, authority, feeDestination, payoutAccount identity.Address) (*Config, error) {
	for name, a := range map[string]identity.Address{
		"authority":       authority,
		"fee destination": feeDestination,
		"payout account":  payoutAccount,
	} {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAccount, name, err)
		}
	}
	if s.defaults.PlatformFeeBps > safemath.TotalBasisPoints {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFee, s.defaults.PlatformFeeBps)
	}

	unlock := s.locker.Lock(store.TreasuryKey())
	defer unlock()

	if _, err := Load(ctx, s.store); err == nil {
		return nil, ErrAlreadyInitialized
	} else if !errors.Is(err, ErrNotInitialized) {
		return nil, err
	}

	now := s.now()
	cfg := &Config{
		Authority:      authority,
		FeeDestination: feeDestination,
		PayoutAccount:  payoutAccount,
		MintFee:        s.defaults.MintFee,
		PlatformFeeBps: s.defaults.PlatformFeeBps,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.Save(ctx, s.store, store.TreasuryKey(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the treasury configuration.
func (s *Service) Get(ctx context.Context) (*Config, error) {
	return Load(ctx, s.store)
}

// UpdateConfig applies u when caller is the authority. Validation happens
// before any field changes.
func (s *Service) UpdateConfig(ctx context.Context, caller identity.Address, u Update) (*Config, error) {
	if u.PlatformFeeBps != nil && *u.PlatformFeeBps > safemath.TotalBasisPoints {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFee, *u.PlatformFeeBps)
	}
	if u.FeeDestination != nil {
		if err := u.FeeDestination.Validate(); err != nil {
			return nil, fmt.Errorf("%w: fee destination: %w", ErrInvalidAccount, err)
		}
	}

	return s.mutate(ctx, caller, func(cfg *Config) {
		if u.MintFee != nil {
			cfg.MintFee = *u.MintFee
		}
		if u.PlatformFeeBps != nil {
			cfg.PlatformFeeBps = *u.PlatformFeeBps
		}
		if u.FeeDestination != nil {
			cfg.FeeDestination = *u.FeeDestination
		}
	})
}

// SetStreamingProvider names the identity allowed to submit ingestion batches.
func (s *Service) SetStreamingProvider(ctx context.Context, caller, provider identity.Address) (*Config, error) {
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("%w: streaming provider: %w", ErrInvalidAccount, err)
	}
	return s.mutate(ctx, caller, func(cfg *Config) {
		cfg.StreamingProvider = provider
	})
}

// WithdrawFunds moves amount from the payout account to the fee destination.
func (s *Service) WithdrawFunds(ctx context.Context, caller identity.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	unlock := s.locker.Lock(store.TreasuryKey())
	defer unlock()

	cfg, err := Load(ctx, s.store)
	if err != nil {
		return err
	}
	if !cfg.Authority.Matches(caller) {
		return ErrUnauthorized
	}

	balance, err := s.funds.Balance(ctx, cfg.PayoutAccount)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, balance, amount)
	}
	return s.funds.Transfer(ctx, cfg.PayoutAccount, cfg.FeeDestination, amount)
}

func (s *Service) mutate(ctx context.Context, caller identity.Address, apply func(*Config)) (*Config, error) {
	unlock := s.locker.Lock(store.TreasuryKey())
	defer unlock()

	cfg, err := Load(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !cfg.Authority.Matches(caller) {
		return nil, ErrUnauthorized
	}

	apply(cfg)
	cfg.UpdatedAt = s.now()
	if err := store.Save(ctx, s.store, store.TreasuryKey(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
