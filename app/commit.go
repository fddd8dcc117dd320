package app

import (
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// CommitStore handles loading from a CommitKVStore and runs every
// operation in its own CacheWrap. A successful update is written and
// committed as a new version, a failed one leaves no trace.
//
// CommitStore does not synchronize access. The caller must serialize
// updates and must not read while an update is in progress.
type CommitStore struct {
	committed revshare.CommitKVStore
}

// NewCommitStore loads the latest version of the given store.
func NewCommitStore(store revshare.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "cannot load latest version")
	}
	return &CommitStore{committed: store}, nil
}

// CommitInfo returns the current version and hash
func (cs *CommitStore) CommitInfo() (revshare.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Update calls fn with a fresh cache over the committed state. If fn
// succeeds the cache is flushed and the store committed. Otherwise all
// changes are discarded and the error of fn returned. If flushing or
// committing fails, the last committed version is reloaded.
func (cs *CommitStore) Update(fn func(revshare.KVCacheWrap) error) (revshare.CommitID, error) {
	cache := cs.committed.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return revshare.CommitID{}, err
	}
	if err := cache.Write(); err != nil {
		return revshare.CommitID{}, cs.rollback(errors.Wrap(err, "cannot write cache"))
	}
	id, err := cs.committed.Commit()
	if err != nil {
		return revshare.CommitID{}, cs.rollback(errors.Wrap(err, "cannot commit"))
	}
	return id, nil
}

// rollback drops uncommitted writes of the working state.
func (cs *CommitStore) rollback(err error) error {
	if lerr := cs.committed.LoadLatestVersion(); lerr != nil {
		return errors.Append(err, errors.Wrap(lerr, "cannot reload latest version"))
	}
	return err
}

// View calls fn with a cache over the committed state that is always
// discarded. Writes made by fn are never persisted.
func (cs *CommitStore) View(fn func(revshare.KVCacheWrap) error) error {
	cache := cs.committed.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// Close releases the underlying store.
func (cs *CommitStore) Close() error {
	return cs.committed.Close()
}
