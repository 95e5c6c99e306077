package claim

import (
	"fmt"

	"github.com/bitfsorg/libroyalty-go/safemath"
)

// Settlement is the breakdown of a single claim.
type Settlement struct {
	GrossShare  uint64 // holder's share of all revenue to date
	Claimable   uint64 // GrossShare minus what was already claimed
	PlatformFee uint64
	Net         uint64 // paid to the holder
}

// Compute derives a settlement from the ledger total, the token's share, what
// it has already claimed and the platform fee rate. It performs no I/O.
func Compute(totalRevenue uint64, shareBps uint16, amountClaimed uint64, feeBps uint16) (Settlement, error) {
	if shareBps > safemath.TotalBasisPoints {
		return Settlement{}, fmt.Errorf("%w: share %d", ErrInvalidShare, shareBps)
	}
	if feeBps > safemath.TotalBasisPoints {
		return Settlement{}, fmt.Errorf("%w: fee %d", ErrInvalidShare, feeBps)
	}

	gross, err := safemath.ApplyBps(totalRevenue, shareBps)
	if err != nil {
		return Settlement{}, err
	}
	if gross <= amountClaimed {
		return Settlement{}, fmt.Errorf("%w: share %d, already claimed %d", ErrNothingToClaim, gross, amountClaimed)
	}
	claimable := gross - amountClaimed

	fee, err := safemath.ApplyBps(claimable, feeBps)
	if err != nil {
		return Settlement{}, err
	}
	net := claimable - fee // fee <= claimable while feeBps <= 10000
	if net == 0 {
		return Settlement{}, fmt.Errorf("%w: fee %d consumes claimable %d", ErrAmountTooSmall, fee, claimable)
	}

	return Settlement{
		GrossShare:  gross,
		Claimable:   claimable,
		PlatformFee: fee,
		Net:         net,
	}, nil
}
