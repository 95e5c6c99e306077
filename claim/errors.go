package claim

import "errors"

var (
	// ErrNothingToClaim indicates the holder has already claimed its full
	// gross share of the revenue recorded so far.
	ErrNothingToClaim = errors.New("claim: no revenue to claim")

	// ErrAmountTooSmall indicates the platform fee consumes the whole claim.
	ErrAmountTooSmall = errors.New("claim: amount too small")

	// ErrInvalidShare indicates a share above 10000 basis points.
	ErrInvalidShare = errors.New("claim: invalid share")

	// ErrSettlementIncomplete indicates value moved but the claim was not
	// recorded. The caller must reconcile before retrying.
	ErrSettlementIncomplete = errors.New("claim: settlement incomplete")
)
