package crypto

import (
	"github.com/iov-one/revshare/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultPath is the SLIP-0010 derivation path of the first signer key.
const DefaultPath = "m/44'/234'/0'"

// DeriveKey derives an ed25519 private key from a master seed following
// SLIP-0010. Only hardened path segments are supported.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be between 16 and 64 bytes, got %d", len(seed))
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derivation path %q: %s", path, err)
	}
	return PrivateKeyFromSeed(k.Key)
}
