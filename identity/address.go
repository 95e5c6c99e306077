// Package identity models the caller and account identities the ledger
// compares against stored authority and holder fields. Identities are BSV
// P2PKH addresses; the package never handles key material beyond deriving an
// address from a public key.
package identity

import (
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
)

// Address is a validated Base58Check P2PKH address. The zero value means
// "unset" and never matches a caller.
type Address string

// ParseAddress validates s as a P2PKH address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	addr, err := script.NewAddressFromString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(addr.PublicKeyHash) != PubKeyHashSize {
		return "", fmt.Errorf("%w: public key hash must be %d bytes", ErrInvalidAddress, PubKeyHashSize)
	}
	return Address(addr.AddressString), nil
}

// MustParseAddress is like ParseAddress but panics on error. Intended for
// package-level fixtures.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromPublicKey derives the mainnet address of pubKey.
func FromPublicKey(pubKey *ec.PublicKey) (Address, error) {
	if pubKey == nil {
		return "", fmt.Errorf("%w: nil public key", ErrInvalidAddress)
	}
	addr, err := script.NewAddressFromPublicKey(pubKey, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return Address(addr.AddressString), nil
}

// PubKeyHash returns the 20-byte hash160 the address commits to.
func (a Address) PubKeyHash() ([]byte, error) {
	addr, err := script.NewAddressFromString(string(a))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return []byte(addr.PublicKeyHash), nil
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == "" }

// Validate checks that a is a well-formed address.
func (a Address) Validate() error {
	_, err := ParseAddress(string(a))
	return err
}

// Matches reports whether caller is the same, non-empty identity as a.
func (a Address) Matches(caller Address) bool {
	return !a.IsZero() && a == caller
}

func (a Address) String() string { return string(a) }
