package revshare

import (
	"time"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/safemath"
)

// AddRevenue bumps the split's revenue counters. On error the split is unchanged.
func (s *Split) AddRevenue(amount uint64, at time.Time) error {
	total, err := safemath.Add(s.TotalRevenueCollected, amount)
	if err != nil {
		return err
	}
	s.TotalRevenueCollected = total
	s.LastRevenueAt = at
	return nil
}

// CreditClaim adds a settled gross amount to the first collaborator entry of
// holder. Holders without an entry are ignored. On error the split is unchanged.
func (s *Split) CreditClaim(holder identity.Address, amount uint64) error {
	_, c := s.FindCollaborator(holder)
	if c == nil {
		return nil
	}
	claimed, err := safemath.Add(c.AmountClaimed, amount)
	if err != nil {
		return err
	}
	c.AmountClaimed = claimed
	return nil
}
