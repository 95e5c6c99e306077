package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/safemath"
)

// Book is an in-memory balance book implementing Funds.
type Book struct {
	mu        sync.Mutex
	balances  map[identity.Address]uint64
	movements []Movement
}

// Compile-time interface check.
var _ Funds = (*Book)(nil)

// NewBook creates an empty balance book.
func NewBook() *Book {
	return &Book{balances: make(map[identity.Address]uint64)}
}

// Credit adds amount to account, e.g. to fund the payout account.
func (b *Book) Credit(account identity.Address, amount uint64) error {
	if account.IsZero() {
		return ErrEmptyAccount
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := safemath.Add(b.balances[account], amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBalanceOverflow, err)
	}
	b.balances[account] = next
	return nil
}

// Balance returns the balance of account. Unknown accounts hold zero.
func (b *Book) Balance(ctx context.Context, account identity.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account], nil
}

// Transfer debits from and credits to. Either both legs apply or neither.
func (b *Book) Transfer(ctx context.Context, from, to identity.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(from, to, amount); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	have := b.balances[from]
	if have < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, from, have, amount)
	}
	if from == to {
		b.movements = append(b.movements, Movement{From: from, To: to, Amount: amount})
		return nil
	}
	credited, err := safemath.Add(b.balances[to], amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBalanceOverflow, err)
	}
	b.balances[from] = have - amount
	b.balances[to] = credited
	b.movements = append(b.movements, Movement{From: from, To: to, Amount: amount})
	return nil
}

// Movements returns the transfers applied so far, oldest first.
func (b *Book) Movements() []Movement {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Movement, len(b.movements))
	copy(out, b.movements)
	return out
}
