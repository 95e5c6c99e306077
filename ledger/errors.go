package ledger

import "errors"

var (
	// ErrInvalidAmount indicates a zero revenue amount.
	ErrInvalidAmount = errors.New("ledger: amount must be greater than zero")

	// ErrStringTooLong indicates an oversized source or description.
	ErrStringTooLong = errors.New("ledger: string too long")

	// ErrInvalidCapacity indicates a transaction log capacity outside 1..MaxTransactions.
	ErrInvalidCapacity = errors.New("ledger: invalid transaction log capacity")
)
