package utils

import (
	"context"
	"testing"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/revsharetest"
	"github.com/iov-one/revshare/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always write ok, ov before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	derr := errors.Wrap(errors.ErrState, "something went wrong")

	cases := map[string]struct {
		save    Savepoint
		handler revshare.Handler
		check   bool // whether to call Check or Deliver
		wantErr bool

		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled, error keeps the write": {
			save:    NewSavepoint(),
			handler: &revsharetest.WriteHandler{Key: nk, Value: nv, DeliverErr: derr},
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"deliver savepoint rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: &revsharetest.WriteHandler{Key: nk, Value: nv, DeliverErr: derr},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint does not affect check": {
			save:    NewSavepoint().OnDeliver(),
			handler: &revsharetest.WriteHandler{Key: nk, Value: nv, DeliverErr: derr},
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnDeliver(),
			handler: &revsharetest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
		"panic rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: revsharetest.Decorate(revsharetest.PanicHandler{Value: "boom"}, NewRecovery()),
			wantErr: true,
			written: [][]byte{ok},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			assert.Equal(t, tc.wantErr, err != nil, "unexpected error: %+v", err)

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "missing %X", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "unexpected %X", k)
			}
		})
	}
}

func TestInSavepointNested(t *testing.T) {
	kv := store.MemStore()
	err := InSavepoint(kv, func(outer revshare.KVStore) error {
		require.NoError(t, outer.Set([]byte("outer"), []byte("1")))
		inner := InSavepoint(outer, func(db revshare.KVStore) error {
			require.NoError(t, db.Set([]byte("inner"), []byte("1")))
			return errors.ErrTransfer
		})
		assert.True(t, errors.ErrTransfer.Is(inner))
		return nil
	})
	require.NoError(t, err)

	has, err := kv.Has([]byte("outer"))
	require.NoError(t, err)
	assert.True(t, has)
	has, err = kv.Has([]byte("inner"))
	require.NoError(t, err)
	assert.False(t, has)
}
