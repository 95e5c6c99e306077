// Package transfer defines the value-transfer capability the ledger settles
// through, plus two implementations: Book, an in-memory balance book, and
// PayoutTx, which collects P2PKH payout outputs for the service layer to fund
// and broadcast.
//
// Transfers are synchronous and not assumed idempotent. Callers must not
// retry a failed transfer blindly.
package transfer

import (
	"context"

	"github.com/bitfsorg/libroyalty-go/identity"
)

// Transferer moves amount from one account to another.
type Transferer interface {
	Transfer(ctx context.Context, from, to identity.Address, amount uint64) error
}

// BalanceReader reports the spendable balance of an account.
type BalanceReader interface {
	Balance(ctx context.Context, account identity.Address) (uint64, error)
}

// Funds is a Transferer that can also report balances.
type Funds interface {
	Transferer
	BalanceReader
}

// Movement is one completed transfer.
type Movement struct {
	From   identity.Address
	To     identity.Address
	Amount uint64
}

func validate(from, to identity.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if from.IsZero() || to.IsZero() {
		return ErrEmptyAccount
	}
	return nil
}
