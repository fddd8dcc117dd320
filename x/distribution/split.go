package distribution

import (
	"math/bits"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// ComputeSplit deducts the platform fee from the gross amount and divides
// the rest equally between holders.
//
//	fee           = floor(gross * feeBps / 10000)
//	distributable = gross - fee
//	perHolder     = floor(distributable / holderCount)
//
// The remainder of the division is not part of the result.
func ComputeSplit(gross, holderCount, feeBps uint64) (fee, distributable, perHolder uint64, err error) {
	if holderCount == 0 {
		return 0, 0, 0, errors.Wrap(errors.ErrDivisionByZero, "no holders")
	}
	fee, distributable, err = deductFee(gross, feeBps)
	if err != nil {
		return 0, 0, 0, err
	}
	return fee, distributable, distributable / holderCount, nil
}

func deductFee(gross, feeBps uint64) (fee, distributable uint64, err error) {
	if feeBps > BasisPoints {
		return 0, 0, errors.Wrapf(errors.ErrInput, "fee rate %d exceeds %d", feeBps, BasisPoints)
	}
	fee, err = mulDiv(gross, feeBps, BasisPoints)
	if err != nil {
		return 0, 0, errors.Wrap(err, "fee")
	}
	return fee, gross - fee, nil
}

// mulDiv returns floor(a * b / d) computed with a 128 bit intermediate.
func mulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, errors.ErrDivisionByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d / %d", a, b, d)
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}

// HolderContext carries the distribution inputs a revenue model may need
// besides the gross amount.
type HolderContext struct {
	// Holders receive the distributable amount, in this order.
	Holders []revshare.Address
	// Weights are required by the Weighted model, one per holder.
	Weights []uint64
	// Creator and CreatorBps are required by the CreatorSplit model.
	Creator    revshare.Address
	CreatorBps uint32

	FeeBps uint32
	Policy RemainderPolicy
}

// Allocation is the result of splitting a payment.
type Allocation struct {
	Fee           uint64
	Distributable uint64
	// PerHolder is the equal share of a holder, zero when shares are not
	// equal.
	PerHolder uint64
	// Shares lists non fee transfers in execution order. Zero amounts are
	// included so that every holder is accounted for.
	Shares []*Share
	// Remainder is the part of the distributable amount that the floor
	// divisions left over.
	Remainder uint64
}

// Total returns the sum of all shares.
func (a *Allocation) Total() uint64 {
	var total uint64
	for _, s := range a.Shares {
		total += s.Amount
	}
	return total
}

// Splitter implements a revenue model.
type Splitter interface {
	Split(gross uint64, hc HolderContext) (*Allocation, error)
}

// SplitterFor returns the strategy implementing given revenue model.
func SplitterFor(m RevenueModel) (Splitter, error) {
	switch m {
	case Equal:
		return EqualSplit{}, nil
	case Weighted:
		return WeightedSplit{}, nil
	case CreatorSplit:
		return CreatorSplitter{}, nil
	}
	return nil, errors.Wrapf(errors.ErrNotImplemented, "revenue model %s", m)
}

// EqualSplit divides the distributable amount equally between holders.
type EqualSplit struct{}

var _ Splitter = EqualSplit{}

func (EqualSplit) Split(gross uint64, hc HolderContext) (*Allocation, error) {
	fee, distributable, per, err := ComputeSplit(gross, uint64(len(hc.Holders)), uint64(hc.FeeBps))
	if err != nil {
		return nil, err
	}
	a := &Allocation{
		Fee:           fee,
		Distributable: distributable,
		PerHolder:     per,
		Shares:        make([]*Share, 0, len(hc.Holders)),
		Remainder:     distributable - per*uint64(len(hc.Holders)),
	}
	for _, h := range hc.Holders {
		a.Shares = append(a.Shares, &Share{Holder: h, Amount: per})
	}
	applyRemainder(a, hc.Policy)
	return a, nil
}

// WeightedSplit divides the distributable amount proportionally to the
// holder weights.
type WeightedSplit struct{}

var _ Splitter = WeightedSplit{}

func (WeightedSplit) Split(gross uint64, hc HolderContext) (*Allocation, error) {
	if len(hc.Holders) == 0 {
		return nil, errors.Wrap(errors.ErrDivisionByZero, "no holders")
	}
	if len(hc.Weights) != len(hc.Holders) {
		return nil, errors.Wrapf(errors.ErrInput, "%d weights for %d holders", len(hc.Weights), len(hc.Holders))
	}
	var sum uint64
	for i, w := range hc.Weights {
		if w == 0 {
			return nil, errors.Wrapf(errors.ErrInput, "weight %d is zero", i)
		}
		next, carry := bits.Add64(sum, w, 0)
		if carry != 0 {
			return nil, errors.Wrap(errors.ErrOverflow, "sum of weights")
		}
		sum = next
	}

	fee, distributable, err := deductFee(gross, uint64(hc.FeeBps))
	if err != nil {
		return nil, err
	}
	a := &Allocation{
		Fee:           fee,
		Distributable: distributable,
		Shares:        make([]*Share, 0, len(hc.Holders)),
	}
	for i, h := range hc.Holders {
		// w <= sum so the quotient never exceeds distributable.
		amount, err := mulDiv(distributable, hc.Weights[i], sum)
		if err != nil {
			return nil, err
		}
		a.Shares = append(a.Shares, &Share{Holder: h, Amount: amount})
	}
	a.Remainder = distributable - a.Total()
	applyRemainder(a, hc.Policy)
	return a, nil
}

// CreatorSplitter pays the creator a fixed rate of the distributable
// amount and divides the rest equally between holders.
type CreatorSplitter struct{}

var _ Splitter = CreatorSplitter{}

func (CreatorSplitter) Split(gross uint64, hc HolderContext) (*Allocation, error) {
	if len(hc.Holders) == 0 {
		return nil, errors.Wrap(errors.ErrDivisionByZero, "no holders")
	}
	if len(hc.Creator) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "creator required")
	}
	if err := hc.Creator.Validate(); err != nil {
		return nil, errors.Wrap(err, "creator")
	}
	if hc.CreatorBps == 0 || hc.CreatorBps > BasisPoints {
		return nil, errors.Wrapf(errors.ErrInput, "creator rate must be within 1..%d", BasisPoints)
	}

	fee, distributable, err := deductFee(gross, uint64(hc.FeeBps))
	if err != nil {
		return nil, err
	}
	creatorShare, err := mulDiv(distributable, uint64(hc.CreatorBps), BasisPoints)
	if err != nil {
		return nil, err
	}
	rest := distributable - creatorShare
	per := rest / uint64(len(hc.Holders))

	a := &Allocation{
		Fee:           fee,
		Distributable: distributable,
		PerHolder:     per,
		Shares:        make([]*Share, 0, len(hc.Holders)+1),
		Remainder:     rest - per*uint64(len(hc.Holders)),
	}
	a.Shares = append(a.Shares, &Share{Holder: hc.Creator, Amount: creatorShare})
	for _, h := range hc.Holders {
		a.Shares = append(a.Shares, &Share{Holder: h, Amount: per})
	}
	applyRemainder(a, hc.Policy)
	return a, nil
}

// applyRemainder credits the remainder to the last share when the policy
// requires it. The remainder stays recorded on the allocation.
func applyRemainder(a *Allocation, policy RemainderPolicy) {
	if policy != LastHolder || a.Remainder == 0 || len(a.Shares) == 0 {
		return
	}
	a.Shares[len(a.Shares)-1].Amount += a.Remainder
}
