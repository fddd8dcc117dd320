package orm

import (
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,16}$`).MatchString

// ModelBucket stores models of a single type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db revshare.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists.
	// It returns ErrNotFound if no entity can be found.
	Has(db revshare.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into
	// database, model is validated using its Validate method.
	// If the key is nil or zero length then a sequence generator is used
	// to create a unique key value.
	// Using a key that already exists in the database cause the value to
	// be overwritten.
	Put(db revshare.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db revshare.KVStore, key []byte) error

	// ByIndex returns all entities whose secondary index value matches,
	// ordered by their primary key. Destination must be a pointer to a
	// slice of models. Keys of the loaded entities are returned in the
	// same order.
	ByIndex(db revshare.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error)

	// All loads every stored entity into the destination, which must be
	// a pointer to a slice of models. Entities are ordered by their
	// primary key, descending when reverse is set. Offset and limit
	// select a window of the result, a zero limit means no limit.
	All(db revshare.ReadOnlyKVStore, dest interface{}, reverse bool, offset, limit int) ([][]byte, error)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("index " + name + " already declared")
		}
		mb.indexes[name] = newCompactIndex(mb.name, name, indexer, unique)
	}
}

// WithIDSequence configures the bucket to use the bucket sequence for
// generating keys of entities stored without one.
func WithIDSequence() ModelBucketOption {
	return func(mb *modelBucket) {
		seq := NewSequence(mb.name)
		mb.seq = &seq
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the
// same type as given example.
func NewModelBucket(name string, example Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(example)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   tp.Elem(),
		indexes: make(map[string]compactIndex),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	seq     *Sequence
	indexes map[string]compactIndex
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) One(db revshare.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", mb.model, dest)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model.Name())
	}
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.model.Name(), err)
	}
	return nil
}

func (mb *modelBucket) Has(db revshare.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "zero length key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db revshare.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		if mb.seq == nil {
			return nil, errors.Wrap(errors.ErrInput, "key required")
		}
		next, err := mb.seq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
		key = next
	}

	var prev Model
	if len(mb.indexes) != 0 {
		old := reflect.New(mb.model).Interface().(Model)
		switch err := mb.One(db, key, old); {
		case err == nil:
			prev = old
		case errors.ErrNotFound.Is(err):
		default:
			return nil, errors.Wrap(err, "cannot load previous state")
		}
	}

	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	for name, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return nil, errors.Wrapf(err, "cannot update %q index", name)
		}
	}
	return key, nil
}

func (mb *modelBucket) Delete(db revshare.KVStore, key []byte) error {
	prev := reflect.New(mb.model).Interface().(Model)
	if err := mb.One(db, key, prev); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return err
	}
	for name, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "cannot update %q index", name)
		}
	}
	return nil
}

func (mb *modelBucket) ByIndex(db revshare.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "unknown index %q", indexName)
	}
	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}
	sink, err := newSliceSink(dest, mb.model)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		m := reflect.New(mb.model).Interface().(Model)
		if err := mb.One(db, key, m); err != nil {
			return nil, errors.Wrapf(err, "indexed entity %X", key)
		}
		sink.add(m)
	}
	sink.flush()
	return keys, nil
}

func (mb *modelBucket) All(db revshare.ReadOnlyKVStore, dest interface{}, reverse bool, offset, limit int) ([][]byte, error) {
	if offset < 0 || limit < 0 {
		return nil, errors.Wrap(errors.ErrInput, "negative window")
	}
	sink, err := newSliceSink(dest, mb.model)
	if err != nil {
		return nil, err
	}

	start, end := prefixRange(mb.prefix)
	var it revshare.Iterator
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	defer it.Release()

	var keys [][]byte
	for i := 0; limit == 0 || len(keys) < limit; i++ {
		key, raw, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "iterator next")
		}
		if i < offset {
			continue
		}
		m := reflect.New(mb.model).Interface().(Model)
		if err := proto.Unmarshal(raw, m); err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.model.Name(), err)
		}
		sink.add(m)
		keys = append(keys, key[len(mb.prefix):])
	}
	sink.flush()
	return keys, nil
}

// sliceSink appends loaded models to a destination slice. Both []T and
// []*T destinations are supported.
type sliceSink struct {
	dest  reflect.Value
	items reflect.Value
	ptrs  bool
}

func newSliceSink(dest interface{}, model reflect.Type) (*sliceSink, error) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	elem := v.Elem().Type().Elem()
	switch {
	case elem == model:
		return &sliceSink{dest: v.Elem(), items: reflect.MakeSlice(v.Elem().Type(), 0, 0)}, nil
	case elem == reflect.PtrTo(model):
		return &sliceSink{dest: v.Elem(), items: reflect.MakeSlice(v.Elem().Type(), 0, 0), ptrs: true}, nil
	default:
		return nil, errors.Wrapf(errors.ErrType, "%s cannot be stored in %T", model, dest)
	}
}

func (s *sliceSink) add(m Model) {
	v := reflect.ValueOf(m)
	if !s.ptrs {
		v = v.Elem()
	}
	s.items = reflect.Append(s.items, v)
}

func (s *sliceSink) flush() {
	s.dest.Set(s.items)
}

// prefixRange returns the iterator boundaries covering all keys with given
// prefix.
func prefixRange(prefix []byte) ([]byte, []byte) {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
