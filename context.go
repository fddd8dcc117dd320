/*
Package revshare defines all common interfaces to put together the various
subpackages of the revenue-distribution ledger, as well as implementations
of some of the simpler components (when interfaces would be too much
overhead).

We pass context through context.Context between the host application,
decorators and handlers. To do so, revshare defines some common keys to
store info, such as the commit time and the logger. Each extension may add
its own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value.
*/
package revshare

import (
	"context"
	"time"

	"github.com/iov-one/revshare/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain.
type Context = context.Context

type contextKey int // local to the revshare module

const (
	contextKeyLogger contextKey = iota
	contextKeyCommitTime
)

// DefaultLogger is used for all context that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

// WithLogger sets the logger for this context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another context like this,
// after passing all the keyvals to the Logger.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none was
// set.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}

// WithCommitTime sets the time of the operation being executed. All
// records created while handling an operation use this value so that a
// single operation carries a single timestamp.
//
// Panics if commit time is already set.
func WithCommitTime(ctx Context, t time.Time) Context {
	if _, ok := ctx.Value(contextKeyCommitTime).(time.Time); ok {
		panic("commit time already set")
	}
	return context.WithValue(ctx, contextKeyCommitTime, t.UTC())
}

// CommitTime returns the time of the operation being executed. It returns
// an error if the time was not set.
func CommitTime(ctx Context) (time.Time, error) {
	t, ok := ctx.Value(contextKeyCommitTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "commit time not present in the context")
	}
	return t, nil
}

// Clock is the source of time used by the host to stamp operations.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time from the operating system.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
