// Package claim settles a claim token holder's entitlement: it computes the
// claimable amount, pays the platform fee and the net amount, and records the
// claim only after both transfers succeed.
package claim

import (
	"context"
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

// Receipt describes a completed claim.
type Receipt struct {
	Settlement
	TokenID       string
	WorkID        string
	Holder        identity.Address
	AmountClaimed uint64 // token total after this claim
	ClaimedAt     time.Time
}

// Settler executes claims.
type Settler struct {
	store  store.Store
	locker *store.Locker
	funds  transfer.Transferer
	now    func() time.Time
}

// Option configures a Settler.
type Option func(*Settler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Settler) { s.now = now }
}

// NewSettler creates a settler paying out through funds. locker must be
// shared with every other component writing the same store.
func NewSettler(st store.Store, locker *store.Locker, funds transfer.Transferer, opts ...Option) *Settler {
	s := &Settler{
		store:  st,
		locker: locker,
		funds:  funds,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Claim settles everything tokenID can claim right now on behalf of caller,
// who must hold the token. The fee goes to the treasury fee destination and
// the net amount to the holder, both from the payout account. The token, the
// holder's split entry and the treasury fee total are written together after
// both transfers succeed; a failed transfer records nothing.
func (s *Settler) Claim(ctx context.Context, caller identity.Address, tokenID string) (*Receipt, error) {
	tokenKey := store.TokenKey(tokenID)

	// WorkID never changes, so it is safe to read before locking.
	peek, err := store.Load[revshare.ClaimToken](ctx, s.store, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("claim token %q: %w", tokenID, err)
	}
	workID := peek.WorkID
	ledgerKey, splitKey := store.LedgerKey(workID), store.SplitKey(workID)

	unlock := s.locker.Lock(tokenKey, ledgerKey, splitKey, store.TreasuryKey())
	defer unlock()

	token, err := store.Load[revshare.ClaimToken](ctx, s.store, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("claim token %q: %w", tokenID, err)
	}
	if !token.Holder.Matches(caller) {
		return nil, fmt.Errorf("%w: caller does not hold token %s", treasury.ErrUnauthorized, tokenID)
	}
	entry, err := store.Load[ledger.Entry](ctx, s.store, ledgerKey)
	if err != nil {
		return nil, fmt.Errorf("ledger for %q: %w", workID, err)
	}
	split, err := store.Load[revshare.Split](ctx, s.store, splitKey)
	if err != nil {
		return nil, fmt.Errorf("split for %q: %w", workID, err)
	}
	cfg, err := treasury.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}

	settlement, err := Compute(entry.TotalRevenue, token.ShareBps, token.AmountClaimed, cfg.PlatformFeeBps)
	if err != nil {
		return nil, err
	}

	// Stage every state change before moving value so that nothing can
	// fail arithmetically once a transfer has happened.
	now := s.now()
	claimed, err := s.stage(token, split, cfg, settlement, now)
	if err != nil {
		return nil, err
	}

	if settlement.PlatformFee > 0 {
		if err := s.funds.Transfer(ctx, cfg.PayoutAccount, cfg.FeeDestination, settlement.PlatformFee); err != nil {
			return nil, fmt.Errorf("platform fee transfer: %w", err)
		}
	}
	if err := s.funds.Transfer(ctx, cfg.PayoutAccount, token.Holder, settlement.Net); err != nil {
		if settlement.PlatformFee > 0 {
			return nil, fmt.Errorf("%w: fee of %d transferred, net transfer failed: %w",
				ErrSettlementIncomplete, settlement.PlatformFee, err)
		}
		return nil, fmt.Errorf("net transfer: %w", err)
	}

	var b store.Batch
	b.Add(tokenKey, token)
	b.Add(splitKey, split)
	if settlement.PlatformFee > 0 {
		b.Add(store.TreasuryKey(), cfg)
	}
	if err := b.Commit(ctx, s.store); err != nil {
		return nil, fmt.Errorf("%w: transfers done, record failed: %w", ErrSettlementIncomplete, err)
	}

	return &Receipt{
		Settlement:    settlement,
		TokenID:       token.ID,
		WorkID:        workID,
		Holder:        token.Holder,
		AmountClaimed: claimed,
		ClaimedAt:     now,
	}, nil
}

func (s *Settler) stage(token *revshare.ClaimToken, split *revshare.Split, cfg *treasury.Config, st Settlement, now time.Time) (uint64, error) {
	claimed, err := safemath.Add(token.AmountClaimed, st.Claimable)
	if err != nil {
		return 0, err
	}
	fees, err := treasury.AddFees(cfg.TotalFeesCollected, st.PlatformFee)
	if err != nil {
		return 0, err
	}
	if err := split.CreditClaim(token.Holder, st.Claimable); err != nil {
		return 0, err
	}
	token.AmountClaimed = claimed
	token.LastClaimedAt = now
	cfg.TotalFeesCollected = fees
	return claimed, nil
}
