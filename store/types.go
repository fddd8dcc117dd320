// nolint
package store

import "github.com/iov-one/revshare"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = revshare.ReadOnlyKVStore
type SetDeleter = revshare.SetDeleter
type KVStore = revshare.KVStore
type Batch = revshare.Batch
type Iterator = revshare.Iterator
type CacheableKVStore = revshare.CacheableKVStore
type KVCacheWrap = revshare.KVCacheWrap
type CommitKVStore = revshare.CommitKVStore
type CommitID = revshare.CommitID

// Model is a key value pair, as returned by an iterator.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a Model.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
