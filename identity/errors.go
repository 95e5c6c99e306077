package identity

import "errors"

// PubKeyHashSize is the length of a P2PKH public key hash.
const PubKeyHashSize = 20

// ErrInvalidAddress indicates a malformed or empty address.
var ErrInvalidAddress = errors.New("identity: invalid address")
