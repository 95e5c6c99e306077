package identity

import (
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// NewTestAddress returns a fresh random address for use in tests.
func NewTestAddress(t testing.TB) Address {
	t.Helper()
	priv, err := ec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr, err := FromPublicKey(priv.PubKey())
	if err != nil {
		t.Fatalf("derive address: %v", err)
	}
	return addr
}
