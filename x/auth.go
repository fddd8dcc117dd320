package x

import (
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled
	GetConditions(revshare.Context) []revshare.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(revshare.Context, revshare.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx revshare.Context) []revshare.Condition {
	var res []revshare.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx revshare.Context, addr revshare.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx revshare.Context, auth Authenticator) revshare.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// Authorize returns ErrUnauthorized unless the context is authenticated
// as the given authority.
func Authorize(ctx revshare.Context, auth Authenticator, authority revshare.Address) error {
	if len(authority) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "no authority configured")
	}
	if !auth.HasAddress(ctx, authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "caller is not %s", authority)
	}
	return nil
}
