package utils

import (
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// Savepoint will isolate all data inside of a Deliver call, and commit or
// rollback to savepoint based on if error. Check is always passed through,
// its changes are never persisted.
type Savepoint struct {
	onDeliver bool
}

var _ revshare.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator, but you must call
// OnDeliver so it will be triggered.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnDeliver returns a savepoint that will trigger on Deliver
func (s Savepoint) OnDeliver() Savepoint {
	return Savepoint{onDeliver: true}
}

func (s Savepoint) Check(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Checker) (*revshare.CheckResult, error) {
	return next.Check(ctx, store, tx)
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Deliverer) (*revshare.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *revshare.DeliverResult
	err := InSavepoint(store, func(db revshare.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// InSavepoint calls fn with a cache wrapped store. All changes made by fn
// are written to the store only if fn succeeds. Stores that cannot be
// cache wrapped are passed directly.
func InSavepoint(store revshare.KVStore, fn func(revshare.KVStore) error) error {
	cstore, ok := store.(revshare.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
