package x

import (
	"context"

	"github.com/iov-one/revshare"
)

type signerKey struct{}

// SignerAuth authenticates the conditions the transport placed on the
// context with WithSigners.
type SignerAuth struct{}

var _ Authenticator = SignerAuth{}

// WithSigners returns a context authenticated by given conditions.
func WithSigners(ctx revshare.Context, signers ...revshare.Condition) revshare.Context {
	return context.WithValue(ctx, signerKey{}, signers)
}

// GetConditions returns the conditions set with WithSigners.
func (SignerAuth) GetConditions(ctx revshare.Context) []revshare.Condition {
	signers, _ := ctx.Value(signerKey{}).([]revshare.Condition)
	return signers
}

// HasAddress returns true if any of the signer conditions resolves to
// given address.
func (a SignerAuth) HasAddress(ctx revshare.Context, addr revshare.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
