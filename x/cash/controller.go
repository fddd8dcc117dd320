package cash

import (
	"math"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/orm"
)

// Controller moves value between wallets.
type Controller struct {
	bucket orm.ModelBucket
}

// NewController returns a controller operating on the wallet bucket.
func NewController() Controller {
	return Controller{bucket: NewBucket()}
}

// Balance returns the balance of given address. Unknown addresses hold
// nothing.
func (c Controller) Balance(db revshare.ReadOnlyKVStore, addr revshare.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	w, err := c.wallet(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// Transfer moves the given amount from src to dest. It fails if src does
// not hold enough funds or if the dest balance would overflow. Nothing is
// written on failure.
func (c Controller) Transfer(db revshare.KVStore, src, dest revshare.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, requires %d", src, sender.Balance, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if recipient.Balance > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", dest)
	}

	sender.Balance -= amount
	recipient.Balance += amount
	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// Issue adds the given amount to the destination wallet. Fails if it
// overflows the wallet.
func (c Controller) Issue(db revshare.KVStore, dest revshare.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if w.Balance > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", dest)
	}
	w.Balance += amount
	_, err = c.bucket.Put(db, dest, w)
	return err
}

func (c Controller) wallet(db revshare.ReadOnlyKVStore, addr revshare.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}
