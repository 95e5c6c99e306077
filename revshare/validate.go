package revshare

import (
	"fmt"

	"github.com/bitfsorg/libroyalty-go/safemath"
)

// ValidateWorkID checks the work identifier bounds.
func ValidateWorkID(workID string) error {
	if workID == "" {
		return fmt.Errorf("%w: empty work ID", ErrInvalidSplit)
	}
	if len(workID) > MaxWorkIDLen {
		return fmt.Errorf("%w: work ID is %d bytes, max %d", ErrInvalidSplit, len(workID), MaxWorkIDLen)
	}
	return nil
}

// ValidateCollaborators checks the collaborator list and returns the share
// total, which is always TotalBasisPoints on success.
func ValidateCollaborators(collaborators []Collaborator) (uint16, error) {
	if len(collaborators) == 0 {
		return 0, fmt.Errorf("%w: no collaborators", ErrInvalidSplit)
	}
	if len(collaborators) > MaxCollaborators {
		return 0, fmt.Errorf("%w: %d collaborators, max %d", ErrInvalidSplit, len(collaborators), MaxCollaborators)
	}

	var total uint64
	for i, c := range collaborators {
		if c.ShareBps == 0 {
			return 0, fmt.Errorf("%w: collaborator %d has zero share", ErrInvalidSplit, i)
		}
		if len(c.Name) > MaxNameLen {
			return 0, fmt.Errorf("%w: collaborator %d name is %d bytes, max %d", ErrInvalidSplit, i, len(c.Name), MaxNameLen)
		}
		if err := c.Address.Validate(); err != nil {
			return 0, fmt.Errorf("%w: collaborator %d: %w", ErrInvalidSplit, i, err)
		}
		next, err := safemath.Add(total, uint64(c.ShareBps))
		if err != nil {
			return 0, err
		}
		total = next
	}

	if total != safemath.TotalBasisPoints {
		return 0, fmt.Errorf("%w: got %d", ErrShareMismatch, total)
	}
	return uint16(total), nil
}

// ValidateDistribution checks that distribution amounts match the split's
// proportions for totalPayment.
func ValidateDistribution(distributions []Distribution, split *Split, totalPayment uint64) error {
	expected, err := Distribute(totalPayment, split)
	if err != nil {
		return err
	}
	if len(distributions) != len(expected) {
		return fmt.Errorf("distribution count %d != collaborator count %d", len(distributions), len(expected))
	}

	for i := range distributions {
		if distributions[i].Address != expected[i].Address {
			return fmt.Errorf("entry %d: address mismatch", i)
		}
		if distributions[i].Amount != expected[i].Amount {
			return fmt.Errorf("entry %d: amount %d != expected %d", i, distributions[i].Amount, expected[i].Amount)
		}
	}
	return nil
}
