package distribution

import (
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

const optKey = "distribution"

// Genesis is the content of the "distribution" genesis section.
type Genesis struct {
	Distributor *GenesisDistributor `json:"distributor"`
	Collections []*CollectionConfig `json:"collections"`
}

// GenesisDistributor configures the distributor at genesis. A missing fee
// rate defaults to DefaultFeeBps.
type GenesisDistributor struct {
	Authority       revshare.Address `json:"authority"`
	Treasury        revshare.Address `json:"treasury"`
	FeeCollector    revshare.Address `json:"fee_collector"`
	FeeBps          *uint32          `json:"fee_bps"`
	RemainderPolicy RemainderPolicy  `json:"remainder_policy"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ revshare.Initializer = Initializer{}

// FromGenesis creates the distributor and the collections declared in the
// genesis file. Collections require a distributor.
func (Initializer) FromGenesis(opts revshare.Options, kv revshare.KVStore) error {
	var g Genesis
	if err := opts.ReadOptions(optKey, &g); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if g.Distributor == nil {
		if len(g.Collections) != 0 {
			return errors.Wrap(errors.ErrState, "collections require a distributor")
		}
		return nil
	}

	d := &Distributor{
		Authority:       g.Distributor.Authority,
		Treasury:        g.Distributor.Treasury,
		FeeCollector:    g.Distributor.FeeCollector,
		FeeBps:          DefaultFeeBps,
		RemainderPolicy: g.Distributor.RemainderPolicy,
	}
	if g.Distributor.FeeBps != nil {
		d.FeeBps = *g.Distributor.FeeBps
	}
	if err := d.Validate(); err != nil {
		return errors.Wrap(err, "genesis distributor")
	}
	distributors := NewDistributorBucket()
	if err := distributors.Save(kv, d); err != nil {
		return errors.Wrap(err, "cannot save distributor")
	}

	collections := NewCollectionBucket()
	for i, c := range g.Collections {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "collection %d", i)
		}
		switch err := collections.Has(kv, []byte(c.CollectionID)); {
		case err == nil:
			return errors.Wrapf(errors.ErrDuplicate, "collection %q", c.CollectionID)
		case !errors.ErrNotFound.Is(err):
			return err
		}
		if err := collections.Save(kv, c); err != nil {
			return errors.Wrapf(err, "collection %d", i)
		}
	}
	return nil
}
