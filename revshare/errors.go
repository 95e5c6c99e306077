package revshare

import "errors"

var (
	// ErrInvalidSplit indicates a malformed split: bad work ID, empty or
	// oversized collaborator list, zero share, oversized name or bad address.
	ErrInvalidSplit = errors.New("revshare: invalid split")

	// ErrShareMismatch indicates collaborator shares do not sum to 10000.
	ErrShareMismatch = errors.New("revshare: shares must sum to 10000 basis points")

	// ErrAlreadyExists indicates a split for the work already exists.
	ErrAlreadyExists = errors.New("revshare: split already exists")

	// ErrNotCollaborator indicates the caller holds no share in the split.
	ErrNotCollaborator = errors.New("revshare: caller is not a collaborator")

	// ErrZeroShares indicates a claim token share of zero.
	ErrZeroShares = errors.New("revshare: zero share amount")

	// ErrAllocationExceeded indicates a mint would issue more than the
	// collaborator's allocated share.
	ErrAllocationExceeded = errors.New("revshare: allocation exceeded")

	// ErrNoEntries indicates a split with no collaborators.
	ErrNoEntries = errors.New("revshare: no collaborator entries")
)
