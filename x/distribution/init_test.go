package distribution

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/revsharetest"
	"github.com/iov-one/revshare/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	authority := revsharetest.SeqCondition(1).Address()
	treasury := revsharetest.SeqCondition(2).Address()
	collector := revsharetest.SeqCondition(3).Address()

	distributor := fmt.Sprintf(`{
		"authority": %q,
		"treasury": %q,
		"fee_collector": %q,
		"remainder_policy": "last_holder"
	}`, authority.String(), treasury.String(), collector.String())

	cases := map[string]struct {
		genesis  string
		wantErr  *errors.Error
		wantInit bool
	}{
		"empty genesis": {
			genesis: `{}`,
		},
		"distributor with collections": {
			genesis: `{"distribution": {"distributor": ` + distributor + `, "collections": [
				{"collection_id": "apes", "revenue_model": "weighted", "is_active": true, "registered_at": "2026-01-01T00:00:00Z"},
				{"collection_id": "punks", "revenue_model": 0}
			]}}`,
			wantInit: true,
		},
		"collections without distributor": {
			genesis: `{"distribution": {"collections": [{"collection_id": "apes"}]}}`,
			wantErr: errors.ErrState,
		},
		"duplicated collection": {
			genesis: `{"distribution": {"distributor": ` + distributor + `, "collections": [
				{"collection_id": "apes"},
				{"collection_id": "apes"}
			]}}`,
			wantErr: errors.ErrDuplicate,
		},
		"invalid collection": {
			genesis: `{"distribution": {"distributor": ` + distributor + `, "collections": [{"collection_id": "a b"}]}}`,
			wantErr: errors.ErrInput,
		},
		"collection with unknown revenue model": {
			genesis: `{"distribution": {"distributor": ` + distributor + `, "collections": [{"collection_id": "apes", "revenue_model": 9}]}}`,
			wantErr: errors.ErrInput,
		},
		"invalid distributor": {
			genesis: `{"distribution": {"distributor": {"authority": "` + authority.String() + `"}}}`,
			wantErr: errors.ErrEmpty,
		},
		"unknown remainder policy": {
			genesis: `{"distribution": {"distributor": {"remainder_policy": "lottery"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts revshare.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)

			exists, err := NewDistributorBucket().Exists(db)
			require.NoError(t, err)
			require.Equal(t, tc.wantInit, exists)
			if !tc.wantInit {
				return
			}

			d, err := NewDistributorBucket().Load(db)
			require.NoError(t, err)
			assert.Equal(t, authority, d.Authority)
			assert.Equal(t, uint32(DefaultFeeBps), d.FeeBps)
			assert.Equal(t, LastHolder, d.RemainderPolicy)

			cols, err := NewCollectionBucket().List(db)
			require.NoError(t, err)
			require.Len(t, cols, 2)
			assert.Equal(t, "apes", cols[0].CollectionID)
			assert.Equal(t, Weighted, cols[0].RevenueModel)
			assert.True(t, cols[0].IsActive)
			assert.Equal(t, "punks", cols[1].CollectionID)
			assert.False(t, cols[1].IsActive)
		})
	}
}
