package revsharetest

import (
	"crypto/sha256"
	"testing"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/crypto"
)

// NewCondition returns the signer condition of a random key.
func NewCondition() revshare.Condition {
	key, err := crypto.GenPrivateKey()
	if err != nil {
		panic(err)
	}
	return key.PublicKey().Condition()
}

// SeqCondition returns a deterministic condition for given sequence
// number. Handy when a test must compare generated addresses.
func SeqCondition(n int) revshare.Condition {
	seed := sha256.Sum256([]byte{byte(n >> 8), byte(n)})
	key, err := crypto.PrivateKeyFromSeed(seed[:])
	if err != nil {
		panic(err)
	}
	return key.PublicKey().Condition()
}

// NewAddresses returns n random, distinct addresses.
func NewAddresses(n int) []revshare.Address {
	addrs := make([]revshare.Address, n)
	for i := range addrs {
		addrs[i] = NewCondition().Address()
	}
	return addrs
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) revshare.Address {
	t.Helper()

	addr, err := revshare.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
