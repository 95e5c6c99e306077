package revshare

import (
	"fmt"

	"github.com/bitfsorg/libroyalty-go/identity"
)

// NewAllocation returns the empty allocation pool of addr in split.
func NewAllocation(split *Split, addr identity.Address) *Allocation {
	return &Allocation{
		WorkID:   split.WorkID,
		Address:  addr,
		Capacity: split.ShareOf(addr),
	}
}

// Remaining returns the share still available for minting.
func (a *Allocation) Remaining() uint16 {
	if a.Issued >= a.Capacity {
		return 0
	}
	return a.Capacity - a.Issued
}

// Reserve issues shareBps from the pool.
func (a *Allocation) Reserve(shareBps uint16) error {
	if shareBps == 0 {
		return ErrZeroShares
	}
	if shareBps > a.Remaining() {
		return fmt.Errorf("%w: requested %d, remaining %d of %d", ErrAllocationExceeded, shareBps, a.Remaining(), a.Capacity)
	}
	a.Issued += shareBps
	return nil
}
