/*
Package crypto holds the ed25519 keys used to identify the ledger
authority. A key is only used to derive the signer condition that the
transport places on the context; signature verification is left to the
transport that issued the key.
*/
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the condition of every signer key.
const ExtensionName = "sigs"

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivateKey returns a random new private key.
func GenPrivateKey() (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &PrivateKey{key: priv}, nil
}

// PrivateKeyFromSeed deterministically generates a private key from a given
// seed. Use for deterministic keys in test cases.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the corresponding public key.
func (p *PrivateKey) PublicKey() PublicKey {
	return PublicKey(p.key.Public().(ed25519.PublicKey))
}

// Sign returns the signature of given message.
func (p *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(p.key, message)
}

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Condition encodes the public key into a signer condition.
func (p PublicKey) Condition() revshare.Condition {
	return revshare.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the address of the signer condition.
func (p PublicKey) Address() revshare.Address {
	return p.Condition().Address()
}

// Verify returns true if the signature was created with this message and
// public key.
func (p PublicKey) Verify(message, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// SaveKey writes the private key seed into given file, hex encoded. The
// file must not exist.
func SaveKey(path string, key *PrivateKey) error {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrap(err, "create key file")
	}
	defer fd.Close()
	if _, err := fd.WriteString(hex.EncodeToString(key.key.Seed()) + "\n"); err != nil {
		return errors.Wrap(err, "write key file")
	}
	return nil
}

// LoadKey reads a private key written by SaveKey.
func LoadKey(path string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "key file is not hex encoded")
	}
	return PrivateKeyFromSeed(seed)
}
