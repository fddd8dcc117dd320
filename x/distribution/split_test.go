package distribution

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/revsharetest"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSplitScenarios(t *testing.T) {
	Convey("Given the default fee rate", t, func() {
		Convey("1000 split between 3 holders leaves nothing", func() {
			fee, distributable, per, err := ComputeSplit(1000, 3, DefaultFeeBps)
			So(err, ShouldBeNil)
			So(fee, ShouldEqual, 25)
			So(distributable, ShouldEqual, 975)
			So(per, ShouldEqual, 325)
			So(distributable-per*3, ShouldEqual, 0)
		})

		Convey("100 split between 3 holders leaves a remainder of 2", func() {
			fee, distributable, per, err := ComputeSplit(100, 3, DefaultFeeBps)
			So(err, ShouldBeNil)
			So(fee, ShouldEqual, 2)
			So(distributable, ShouldEqual, 98)
			So(per, ShouldEqual, 32)
			So(distributable-per*3, ShouldEqual, 2)
		})

		Convey("No holders is rejected", func() {
			_, _, _, err := ComputeSplit(100, 0, DefaultFeeBps)
			So(errors.ErrDivisionByZero.Is(err), ShouldBeTrue)
		})

		Convey("The largest amount does not overflow", func() {
			fee, distributable, _, err := ComputeSplit(math.MaxUint64, 1, DefaultFeeBps)
			So(err, ShouldBeNil)
			So(fee+distributable, ShouldEqual, uint64(math.MaxUint64))
			So(fee, ShouldEqual, uint64(461168601842738790))
		})
	})
}

func TestComputeSplitProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		gross := r.Uint64()
		if i%2 == 0 {
			gross %= 1e6
		}
		holders := uint64(r.Intn(MaxHolders) + 1)

		fee, distributable, per, err := ComputeSplit(gross, holders, DefaultFeeBps)
		require.NoError(t, err)

		wantFee, err := mulDiv(gross, DefaultFeeBps, BasisPoints)
		require.NoError(t, err)
		assert.Equal(t, wantFee, fee)
		assert.Equal(t, gross, fee+distributable)
		assert.True(t, per*holders <= distributable, "%d * %d > %d", per, holders, distributable)
		assert.True(t, distributable-per*holders < holders, "remainder of %d between %d", distributable, holders)
	}
}

func TestMulDiv(t *testing.T) {
	cases := map[string]struct {
		a, b, d uint64
		want    uint64
		wantErr *errors.Error
	}{
		"small":               {a: 1000, b: 250, d: 10000, want: 25},
		"wide intermediate":   {a: math.MaxUint64, b: 10000, d: 10000, want: math.MaxUint64},
		"quotient overflows":  {a: math.MaxUint64, b: 2, d: 1, wantErr: errors.ErrOverflow},
		"division by zero":    {a: 1, b: 1, d: 0, wantErr: errors.ErrDivisionByZero},
		"floor is used":       {a: 7, b: 1, d: 2, want: 3},
		"zero multiplication": {a: 0, b: math.MaxUint64, d: 3, want: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := mulDiv(tc.a, tc.b, tc.d)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitters(t *testing.T) {
	holders := revsharetest.NewAddresses(3)
	creator := revsharetest.NewCondition().Address()

	amounts := func(shares []*Share) []uint64 {
		res := make([]uint64, len(shares))
		for i, s := range shares {
			res[i] = s.Amount
		}
		return res
	}

	cases := map[string]struct {
		model         RevenueModel
		gross         uint64
		hc            HolderContext
		wantErr       *errors.Error
		wantFee       uint64
		wantShares    []uint64
		wantRemainder uint64
	}{
		"equal split retains the remainder": {
			model:         Equal,
			gross:         100,
			hc:            HolderContext{Holders: holders, FeeBps: DefaultFeeBps},
			wantFee:       2,
			wantShares:    []uint64{32, 32, 32},
			wantRemainder: 2,
		},
		"equal split pays the remainder to the last holder": {
			model:         Equal,
			gross:         100,
			hc:            HolderContext{Holders: holders, FeeBps: DefaultFeeBps, Policy: LastHolder},
			wantFee:       2,
			wantShares:    []uint64{32, 32, 34},
			wantRemainder: 2,
		},
		"equal split below one unit per holder": {
			model:         Equal,
			gross:         2,
			hc:            HolderContext{Holders: holders, FeeBps: DefaultFeeBps},
			wantShares:    []uint64{0, 0, 0},
			wantRemainder: 2,
		},
		"equal split without fee": {
			model:      Equal,
			gross:      300,
			hc:         HolderContext{Holders: holders},
			wantShares: []uint64{100, 100, 100},
		},
		"equal split without holders": {
			model:   Equal,
			gross:   300,
			hc:      HolderContext{},
			wantErr: errors.ErrDivisionByZero,
		},
		"weighted split": {
			model:         Weighted,
			gross:         1000,
			hc:            HolderContext{Holders: holders, Weights: []uint64{1, 2, 3}, FeeBps: DefaultFeeBps},
			wantFee:       25,
			wantShares:    []uint64{162, 325, 487},
			wantRemainder: 1,
		},
		"weighted split with huge weights": {
			model:      Weighted,
			gross:      1000,
			hc:         HolderContext{Holders: holders[:2], Weights: []uint64{math.MaxUint64 / 2, math.MaxUint64 / 2}},
			wantShares: []uint64{500, 500},
		},
		"weighted split weight sum overflows": {
			model:   Weighted,
			gross:   1000,
			hc:      HolderContext{Holders: holders[:2], Weights: []uint64{math.MaxUint64, 1}},
			wantErr: errors.ErrOverflow,
		},
		"weighted split missing weights": {
			model:   Weighted,
			gross:   1000,
			hc:      HolderContext{Holders: holders, Weights: []uint64{1}},
			wantErr: errors.ErrInput,
		},
		"weighted split zero weight": {
			model:   Weighted,
			gross:   1000,
			hc:      HolderContext{Holders: holders, Weights: []uint64{1, 0, 1}},
			wantErr: errors.ErrInput,
		},
		"creator split": {
			model:         CreatorSplit,
			gross:         1000,
			hc:            HolderContext{Holders: holders, Creator: creator, CreatorBps: 2000, FeeBps: DefaultFeeBps},
			wantFee:       25,
			wantShares:    []uint64{195, 260, 260, 260},
			wantRemainder: 0,
		},
		"creator split remainder to last holder": {
			model:         CreatorSplit,
			gross:         101,
			hc:            HolderContext{Holders: holders, Creator: creator, CreatorBps: 5000, Policy: LastHolder},
			wantShares:    []uint64{50, 17, 17, 17},
			wantRemainder: 0,
		},
		"creator split without creator": {
			model:   CreatorSplit,
			gross:   1000,
			hc:      HolderContext{Holders: holders, CreatorBps: 2000},
			wantErr: errors.ErrInput,
		},
		"creator split with invalid rate": {
			model:   CreatorSplit,
			gross:   1000,
			hc:      HolderContext{Holders: holders, Creator: creator, CreatorBps: BasisPoints + 1},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s, err := SplitterFor(tc.model)
			require.NoError(t, err)
			a, err := s.Split(tc.gross, tc.hc)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFee, a.Fee)
			assert.Equal(t, tc.wantShares, amounts(a.Shares))
			assert.Equal(t, tc.wantRemainder, a.Remainder)
			assert.Equal(t, tc.gross, a.Fee+a.Distributable)

			paid := a.Total()
			if tc.hc.Policy == Retain {
				paid += a.Remainder
			}
			assert.Equal(t, a.Distributable, paid)
		})
	}
}

func TestSplitterForUnknownModel(t *testing.T) {
	_, err := SplitterFor(RevenueModel(42))
	require.True(t, errors.ErrNotImplemented.Is(err))
}

func TestCreatorComesFirst(t *testing.T) {
	holders := []revshare.Address{revsharetest.SeqCondition(1).Address()}
	creator := revsharetest.SeqCondition(2).Address()
	a, err := CreatorSplitter{}.Split(1000, HolderContext{Holders: holders, Creator: creator, CreatorBps: 100})
	require.NoError(t, err)
	require.Len(t, a.Shares, 2)
	assert.Equal(t, creator, a.Shares[0].Holder)
	assert.Equal(t, uint64(10), a.Shares[0].Amount)
	assert.Equal(t, uint64(990), a.Shares[1].Amount)
}
