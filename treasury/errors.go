package treasury

import "errors"

var (
	// ErrUnauthorized indicates the caller is not the stored authority.
	ErrUnauthorized = errors.New("treasury: caller is not authorized")

	// ErrInvalidFee indicates a platform fee above 100%.
	ErrInvalidFee = errors.New("treasury: platform fee exceeds 10000 basis points")

	// ErrInvalidAmount indicates a zero withdrawal.
	ErrInvalidAmount = errors.New("treasury: amount must be greater than zero")

	// ErrInsufficientFunds indicates the payout account cannot cover a withdrawal.
	ErrInsufficientFunds = errors.New("treasury: insufficient funds")

	// ErrAlreadyInitialized indicates Init was called twice.
	ErrAlreadyInitialized = errors.New("treasury: already initialized")

	// ErrNotInitialized indicates the treasury has not been initialized.
	ErrNotInitialized = errors.New("treasury: not initialized")

	// ErrInvalidAccount indicates a malformed account address.
	ErrInvalidAccount = errors.New("treasury: invalid account")
)
