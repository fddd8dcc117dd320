package utils

import (
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// Recovery is a decorator to recover from panics in operations, so we can
// log them as errors.
type Recovery struct{}

var _ revshare.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Checker) (_ *revshare.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Deliverer) (_ *revshare.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
