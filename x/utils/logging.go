package utils

import (
	"time"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/x"
)

// Logging is a decorator to log messages as they pass through. When an
// authenticator is given, the main signer is logged as the caller.
type Logging struct {
	auth x.Authenticator
}

var _ revshare.Decorator = Logging{}

// NewLogging creates a Logging decorator. auth can be nil.
func NewLogging(auth x.Authenticator) Logging {
	return Logging{auth: auth}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Checker) (*revshare.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	r.logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Deliverer) (*revshare.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	r.logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func (r Logging) logDuration(ctx revshare.Context, tx revshare.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := revshare.GetLogger(ctx).With(
		"path", revshare.GetPath(tx),
		"duration", delta/time.Microsecond,
	)
	if r.auth != nil {
		if signer := x.MainSigner(ctx, r.auth); signer != nil {
			logger = logger.With("caller", signer.Address().String())
		}
	}

	// Message can be empty but the entry still carries the path and
	// duration.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
