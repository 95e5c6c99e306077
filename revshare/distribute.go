package revshare

import "github.com/bitfsorg/libroyalty-go/safemath"

// Distribute previews each collaborator's gross entitlement of totalPayment.
// The last collaborator gets the remainder so the amounts always sum to
// totalPayment.
func Distribute(totalPayment uint64, split *Split) ([]Distribution, error) {
	if split == nil || len(split.Collaborators) == 0 {
		return nil, ErrNoEntries
	}

	distributions := make([]Distribution, len(split.Collaborators))
	var distributed uint64

	for i, c := range split.Collaborators {
		distributions[i].Address = c.Address
		if i == len(split.Collaborators)-1 {
			distributions[i].Amount = totalPayment - distributed
			continue
		}
		amount, err := safemath.ApplyBps(totalPayment, c.ShareBps)
		if err != nil {
			return nil, err
		}
		distributions[i].Amount = amount
		distributed += amount
	}

	return distributions, nil
}
