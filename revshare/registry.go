// Package revshare maintains per-work revenue splits among collaborators and
// the claim tokens minted against each collaborator's share.
package revshare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/store"
)

// Registry stores splits and claim tokens.
type Registry struct {
	store  store.Store
	locker *store.Locker
	now    func() time.Time
	newID  func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator overrides the claim token ID source.
func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) { r.newID = newID }
}

// NewRegistry creates a registry over st. locker must be shared with every
// other component writing the same store.
func NewRegistry(st store.Store, locker *store.Locker, opts ...Option) *Registry {
	r := &Registry{
		store:  st,
		locker: locker,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateSplit validates and stores the split for workID. A work has at most
// one split and it is never replaced.
func (r *Registry) CreateSplit(ctx context.Context, workID string, collaborators []Collaborator) (*Split, error) {
	if err := ValidateWorkID(workID); err != nil {
		return nil, err
	}
	total, err := ValidateCollaborators(collaborators)
	if err != nil {
		return nil, err
	}

	key := store.SplitKey(workID)
	unlock := r.locker.Lock(key)
	defer unlock()

	if _, err := store.Load[Split](ctx, r.store, key); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, workID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	split := &Split{
		WorkID:        workID,
		Collaborators: make([]Collaborator, len(collaborators)),
		TotalBps:      total,
		CreatedAt:     r.now(),
	}
	for i, c := range collaborators {
		c.AmountClaimed = 0
		split.Collaborators[i] = c
	}

	if err := store.Save(ctx, r.store, key, split); err != nil {
		return nil, err
	}
	return split, nil
}

// GetSplit returns the split for workID or store.ErrNotFound.
func (r *Registry) GetSplit(ctx context.Context, workID string) (*Split, error) {
	return store.Load[Split](ctx, r.store, store.SplitKey(workID))
}

// MintClaimToken issues a claim token for shareBps of caller's allocation in
// workID. The token and the updated allocation pool are written together.
func (r *Registry) MintClaimToken(ctx context.Context, caller identity.Address, workID string, shareBps uint16) (*ClaimToken, error) {
	if shareBps == 0 {
		return nil, ErrZeroShares
	}
	if caller.IsZero() {
		return nil, ErrNotCollaborator
	}

	splitKey := store.SplitKey(workID)
	allocKey := store.AllocationKey(workID, caller.String())
	unlock := r.locker.Lock(splitKey, allocKey)
	defer unlock()

	split, err := store.Load[Split](ctx, r.store, splitKey)
	if err != nil {
		return nil, err
	}
	if split.ShareOf(caller) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotCollaborator, caller, workID)
	}

	alloc, err := store.Load[Allocation](ctx, r.store, allocKey)
	if errors.Is(err, store.ErrNotFound) {
		alloc = NewAllocation(split, caller)
	} else if err != nil {
		return nil, err
	}
	if err := alloc.Reserve(shareBps); err != nil {
		return nil, err
	}

	token := &ClaimToken{
		ID:        r.newID(),
		WorkID:    workID,
		Holder:    caller,
		ShareBps:  shareBps,
		CreatedAt: r.now(),
	}

	var b store.Batch
	b.Add(store.TokenKey(token.ID), token)
	b.Add(allocKey, alloc)
	if err := b.Commit(ctx, r.store); err != nil {
		return nil, err
	}
	return token, nil
}

// GetClaimToken returns the claim token with id or store.ErrNotFound.
func (r *Registry) GetClaimToken(ctx context.Context, id string) (*ClaimToken, error) {
	return store.Load[ClaimToken](ctx, r.store, store.TokenKey(id))
}

// GetAllocation returns addr's allocation pool in workID. A collaborator who
// has not minted yet gets a fresh pool derived from the split.
func (r *Registry) GetAllocation(ctx context.Context, workID string, addr identity.Address) (*Allocation, error) {
	alloc, err := store.Load[Allocation](ctx, r.store, store.AllocationKey(workID, addr.String()))
	if !errors.Is(err, store.ErrNotFound) {
		return alloc, err
	}
	split, err := r.GetSplit(ctx, workID)
	if err != nil {
		return nil, err
	}
	return NewAllocation(split, addr), nil
}
