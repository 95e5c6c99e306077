package revshare

import (
	"time"

	"github.com/bitfsorg/libroyalty-go/identity"
)

const (
	// MaxCollaborators is the maximum number of entries in a split.
	MaxCollaborators = 10

	// MaxNameLen is the maximum collaborator name length in bytes.
	MaxNameLen = 50

	// MaxWorkIDLen is the maximum work identifier length in bytes.
	MaxWorkIDLen = 64
)

// Collaborator is one rights-holder in a split.
type Collaborator struct {
	Address       identity.Address
	Name          string
	ShareBps      uint16
	AmountClaimed uint64 // gross amount claimed through this collaborator's tokens
}

// Split is the agreed revenue allocation for a work. It is created once and
// its shares never change.
type Split struct {
	WorkID                string
	Collaborators         []Collaborator
	TotalBps              uint16
	TotalRevenueCollected uint64
	CreatedAt             time.Time
	LastRevenueAt         time.Time
}

// ShareOf returns the summed share of every entry held by addr.
func (s *Split) ShareOf(addr identity.Address) uint16 {
	var total uint16
	for _, c := range s.Collaborators {
		if c.Address.Matches(addr) {
			total += c.ShareBps // bounded by TotalBps
		}
	}
	return total
}

// FindCollaborator returns the index and entry for addr, or -1 if not found.
func (s *Split) FindCollaborator(addr identity.Address) (int, *Collaborator) {
	for i := range s.Collaborators {
		if s.Collaborators[i].Address.Matches(addr) {
			return i, &s.Collaborators[i]
		}
	}
	return -1, nil
}

// ClaimToken is a holder's right to claim ShareBps of a work's revenue.
type ClaimToken struct {
	ID            string
	WorkID        string
	Holder        identity.Address
	ShareBps      uint16
	AmountClaimed uint64
	LastClaimedAt time.Time
	CreatedAt     time.Time
}

// Allocation tracks how much of one collaborator's share has been issued as
// claim tokens.
type Allocation struct {
	WorkID   string
	Address  identity.Address
	Capacity uint16
	Issued   uint16
}

// Distribution is a single payout in a revenue distribution preview.
type Distribution struct {
	Address identity.Address
	Amount  uint64
}
