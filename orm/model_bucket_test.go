package orm

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Counter is a model used only by tests.
type Counter struct {
	Owner string `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Count int64  `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrInput, "negative count")
	}
	return nil
}

func counterByOwner(m Model) ([]byte, error) {
	c, ok := m.(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	if c.Owner == "" {
		return nil, nil
	}
	return []byte(c.Owner), nil
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	_, err := b.Put(db, []byte("c1"), &Counter{Count: 1})
	require.NoError(t, err)

	var c1 Counter
	require.NoError(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(1), c1.Count)
	assert.NoError(t, b.Has(db, []byte("c1")))

	_, err = b.Put(db, []byte("c2"), &Counter{Count: -1})
	assert.True(t, errors.ErrInput.Is(err))
	_, err = b.Put(db, nil, &Counter{Count: 1})
	assert.True(t, errors.ErrInput.Is(err), "no sequence configured")

	require.NoError(t, b.Delete(db, []byte("c1")))
	assert.True(t, errors.ErrNotFound.Is(b.Delete(db, []byte("unknown"))))
	assert.True(t, errors.ErrNotFound.Is(b.One(db, []byte("c1"), &c1)))
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, []byte("c1"))))

	var wrong MultiRef
	assert.True(t, errors.ErrType.Is(b.One(db, []byte("c1"), &wrong)))
}

func TestModelBucketSequenceAndIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{},
		WithIDSequence(),
		WithIndex("owner", counterByOwner, false),
	)

	var keys [][]byte
	for _, c := range []*Counter{
		{Owner: "alice", Count: 1},
		{Owner: "bob", Count: 2},
		{Owner: "alice", Count: 3},
		{Count: 4},
	} {
		key, err := b.Put(db, nil, c)
		require.NoError(t, err)
		keys = append(keys, key)
	}
	assert.Equal(t, EncodeSequence(1), keys[0])
	assert.Equal(t, EncodeSequence(4), keys[3])

	var alice []Counter
	found, err := b.ByIndex(db, "owner", []byte("alice"), &alice)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{keys[0], keys[2]}, found)
	assert.Equal(t, []Counter{{Owner: "alice", Count: 1}, {Owner: "alice", Count: 3}}, alice)

	// moving a counter to another owner updates the index
	_, err = b.Put(db, keys[0], &Counter{Owner: "bob", Count: 1})
	require.NoError(t, err)
	var bob []*Counter
	_, err = b.ByIndex(db, "owner", []byte("bob"), &bob)
	require.NoError(t, err)
	assert.Len(t, bob, 2)

	require.NoError(t, b.Delete(db, keys[2]))
	_, err = b.ByIndex(db, "owner", []byte("alice"), &alice)
	require.NoError(t, err)
	assert.Len(t, alice, 0)

	_, err = b.ByIndex(db, "unknown", []byte("x"), &alice)
	assert.True(t, ErrInvalidIndex.Is(err))
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{}, WithIndex("owner", counterByOwner, true))

	_, err := b.Put(db, []byte("a"), &Counter{Owner: "alice"})
	require.NoError(t, err)
	// overwriting the same entity keeps the index valid
	_, err = b.Put(db, []byte("a"), &Counter{Owner: "alice", Count: 2})
	require.NoError(t, err)

	_, err = b.Put(db, []byte("b"), &Counter{Owner: "alice"})
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestModelBucketAll(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{}, WithIDSequence())
	other := NewModelBucket("others", &Counter{})

	for i := int64(1); i <= 5; i++ {
		_, err := b.Put(db, nil, &Counter{Count: i})
		require.NoError(t, err)
	}
	_, err := other.Put(db, []byte("x"), &Counter{Count: 100})
	require.NoError(t, err)

	cases := map[string]struct {
		reverse       bool
		offset, limit int
		want          []int64
	}{
		"everything":      {want: []int64{1, 2, 3, 4, 5}},
		"reversed":        {reverse: true, want: []int64{5, 4, 3, 2, 1}},
		"window":          {offset: 1, limit: 2, want: []int64{2, 3}},
		"reversed window": {reverse: true, offset: 3, limit: 10, want: []int64{2, 1}},
		"offset too big":  {offset: 10, want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var res []*Counter
			keys, err := b.All(db, &res, tc.reverse, tc.offset, tc.limit)
			require.NoError(t, err)
			require.Len(t, keys, len(tc.want))
			var got []int64
			for i, c := range res {
				got = append(got, c.Count)
				assert.Equal(t, EncodeSequence(uint64(c.Count)), keys[i])
			}
			assert.Equal(t, tc.want, got)
		})
	}

	var bad []MultiRef
	_, err = b.All(db, &bad, false, 0, 0)
	assert.True(t, errors.ErrType.Is(err))
}

func TestMultiRef(t *testing.T) {
	var m MultiRef
	require.NoError(t, m.Add([]byte("b")))
	require.NoError(t, m.Add([]byte("a")))
	require.NoError(t, m.Add([]byte("c")))
	assert.True(t, errors.ErrDuplicate.Is(m.Add([]byte("a"))))
	assert.NoError(t, m.Validate())
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)

	require.NoError(t, m.Remove([]byte("b")))
	assert.True(t, errors.ErrNotFound.Is(m.Remove([]byte("b"))))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("c")}, m.Refs)
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("cnts")

	latest, err := s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), latest)

	var last []byte
	for i := 0; i < 300; i++ {
		val, err := s.NextVal(db)
		require.NoError(t, err)
		require.NoError(t, ValidateSequence(val))
		if last != nil {
			assert.True(t, string(val) > string(last), "sequence must grow")
		}
		last = val
	}
	latest, err = s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), latest)
}
