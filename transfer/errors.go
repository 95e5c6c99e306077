package transfer

import "errors"

var (
	// ErrZeroAmount indicates a transfer of nothing.
	ErrZeroAmount = errors.New("transfer: amount must be greater than zero")

	// ErrEmptyAccount indicates a missing source or destination account.
	ErrEmptyAccount = errors.New("transfer: account must not be empty")

	// ErrInsufficientBalance indicates the source cannot cover the amount.
	ErrInsufficientBalance = errors.New("transfer: insufficient balance")

	// ErrBalanceOverflow indicates a credit would overflow the destination balance.
	ErrBalanceOverflow = errors.New("transfer: balance overflow")

	// ErrUnknownSource indicates a payout was requested from an account the
	// payout transaction does not spend from.
	ErrUnknownSource = errors.New("transfer: unknown payout source")

	// ErrScriptBuild indicates a locking script could not be built.
	ErrScriptBuild = errors.New("transfer: failed to build locking script")
)
