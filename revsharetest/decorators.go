package revsharetest

import "github.com/iov-one/revshare"

// Decorator is a mock implementation of the revshare.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. If error attributes are not set then wrapped handler method is
// called and its result returned.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ revshare.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx, next revshare.Checker) (*revshare.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx, next revshare.Deliverer) (*revshare.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls given decorator first.
func Decorate(h revshare.Handler, d revshare.Decorator) revshare.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn revshare.Handler
	dc revshare.Decorator
}

func (d *decoratedHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
