package orm

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given model. A nil
// key means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// compactIndex stores all references indexed under a single value as a
// set, serialized and stored under a single key. Use only for small sized
// index collections.
type compactIndex struct {
	name    string
	id      []byte
	unique  bool
	indexer Indexer
}

func newCompactIndex(bucket, name string, indexer Indexer, unique bool) compactIndex {
	return compactIndex{
		name:    name,
		id:      []byte(compactIdxPrefix + bucket + "_" + name + ":"),
		unique:  unique,
		indexer: indexer,
	}
}

// indexKey is the full key we store in the db, including prefix. A new
// array is allocated so consecutive calls never share memory.
func (i compactIndex) indexKey(value []byte) []byte {
	out := make([]byte, len(i.id)+len(value))
	copy(out, i.id)
	copy(out[len(i.id):], value)
	return out
}

// Update moves the reference of the model with given primary key to the
// right location.
//
// prev == nil means insert
// save == nil means delete
func (i compactIndex) Update(db revshare.KVStore, key []byte, prev, save Model) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}

	var before, after []byte
	if prev != nil {
		v, err := i.indexer(prev)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		before = v
	}
	if save != nil {
		v, err := i.indexer(save)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		after = v
	}

	if prev != nil && save != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := i.remove(db, before, key); err != nil {
			return err
		}
	}
	if after != nil {
		if err := i.insert(db, after, key); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns all primary keys indexed under given value, sorted.
func (i compactIndex) Keys(db revshare.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.load(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

func (i compactIndex) load(db revshare.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load index")
	}
	var refs MultiRef
	if raw == nil {
		return &refs, nil
	}
	if err := proto.Unmarshal(raw, &refs); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &refs, nil
}

func (i compactIndex) insert(db revshare.KVStore, value, key []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "unique index %q", i.name)
	}
	if err := refs.Add(key); err != nil {
		return err
	}
	return i.save(db, value, refs)
}

func (i compactIndex) remove(db revshare.KVStore, value, key []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if err := refs.Remove(key); err != nil {
		return errors.Wrapf(err, "index %q", i.name)
	}
	if len(refs.Refs) == 0 {
		return db.Delete(i.indexKey(value))
	}
	return i.save(db, value, refs)
}

func (i compactIndex) save(db revshare.KVStore, value []byte, refs *MultiRef) error {
	raw, err := proto.Marshal(refs)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(i.indexKey(value), raw)
}
