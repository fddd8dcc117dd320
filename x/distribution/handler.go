package distribution

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/x"
	"github.com/iov-one/revshare/x/utils"
)

// Transferrer moves value between accounts. A transfer either succeeds
// or changes nothing. It writes into the given store so that transfers
// are committed together with the operation issuing them.
// Required functionality is implemented by the x/cash extension.
type Transferrer interface {
	Transfer(db revshare.KVStore, from, to revshare.Address, amount uint64) error
}

// RegisterRoutes registers handlers for distribution message processing.
func RegisterRoutes(r revshare.Registry, auth x.Authenticator, tr Transferrer) {
	b := buckets{
		distributor: NewDistributorBucket(),
		collections: NewCollectionBucket(),
		events:      NewEventBucket(),
	}
	r.Handle(&InitializeMsg{}, &initializeHandler{auth: auth, b: b})
	r.Handle(&RegisterCollectionMsg{}, &registerCollectionHandler{auth: auth, b: b})
	r.Handle(&SetCollectionActiveMsg{}, &setCollectionActiveHandler{auth: auth, b: b})
	r.Handle(&DistributePaymentMsg{}, &distributePaymentHandler{auth: auth, b: b, tr: tr})
	r.Handle(&DistributeBatchMsg{}, &distributeBatchHandler{auth: auth, b: b, tr: tr})
	r.Handle(&DistributeBatchBestEffortMsg{}, &distributeBatchBestEffortHandler{auth: auth, b: b, tr: tr})
}

type buckets struct {
	distributor DistributorBucket
	collections CollectionBucket
	events      EventBucket
}

// authorized loads the distributor and ensures the caller is its
// authority.
func (b buckets) authorized(ctx revshare.Context, db revshare.ReadOnlyKVStore, auth x.Authenticator) (*Distributor, error) {
	d, err := b.distributor.Load(db)
	if err != nil {
		return nil, err
	}
	if err := x.Authorize(ctx, auth, d.Authority); err != nil {
		return nil, err
	}
	return d, nil
}

type initializeHandler struct {
	auth x.Authenticator
	b    buckets
}

func (h *initializeHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &revshare.CheckResult{}, nil
}

func (h *initializeHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	d := &Distributor{
		Authority:       msg.Authority,
		FeeBps:          msg.FeeBps,
		Treasury:        msg.Treasury,
		FeeCollector:    msg.FeeCollector,
		RemainderPolicy: msg.RemainderPolicy,
	}
	if err := h.b.distributor.Save(db, d); err != nil {
		return nil, errors.Wrap(err, "cannot save distributor")
	}
	revshare.GetLogger(ctx).Info("distributor initialized", "authority", msg.Authority, "fee_bps", msg.FeeBps)
	return &revshare.DeliverResult{Log: "distributor initialized"}, nil
}

func (h *initializeHandler) validate(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := revshare.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// The signer becomes the authority, nobody can initialize on behalf
	// of another identity.
	if err := x.Authorize(ctx, h.auth, msg.Authority); err != nil {
		return nil, err
	}
	switch exists, err := h.b.distributor.Exists(db); {
	case err != nil:
		return nil, err
	case exists:
		return nil, errors.Wrap(errors.ErrDuplicate, "distributor already initialized")
	}
	return &msg, nil
}

type registerCollectionHandler struct {
	auth x.Authenticator
	b    buckets
}

func (h *registerCollectionHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &revshare.CheckResult{}, nil
}

func (h *registerCollectionHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := revshare.CommitTime(ctx)
	if err != nil {
		return nil, err
	}
	c := &CollectionConfig{
		CollectionID:   msg.CollectionID,
		PayoutEndpoint: msg.PayoutEndpoint,
		RevenueModel:   msg.RevenueModel,
		IsActive:       true,
		RegisteredAt:   revshare.AsUnixTime(now),
	}
	if err := h.b.collections.Save(db, c); err != nil {
		return nil, errors.Wrap(err, "cannot save collection")
	}
	return &revshare.DeliverResult{Data: []byte(c.CollectionID), Log: "collection registered"}, nil
}

func (h *registerCollectionHandler) validate(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*RegisterCollectionMsg, error) {
	var msg RegisterCollectionMsg
	if err := revshare.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.b.authorized(ctx, db, h.auth); err != nil {
		return nil, err
	}
	switch err := h.b.collections.Has(db, []byte(msg.CollectionID)); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "collection %q", msg.CollectionID)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return &msg, nil
}

type setCollectionActiveHandler struct {
	auth x.Authenticator
	b    buckets
}

func (h *setCollectionActiveHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &revshare.CheckResult{}, nil
}

func (h *setCollectionActiveHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	msg, c, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	c.IsActive = msg.Active
	if err := h.b.collections.Save(db, c); err != nil {
		return nil, errors.Wrap(err, "cannot save collection")
	}
	return &revshare.DeliverResult{}, nil
}

func (h *setCollectionActiveHandler) validate(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*SetCollectionActiveMsg, *CollectionConfig, error) {
	var msg SetCollectionActiveMsg
	if err := revshare.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.b.authorized(ctx, db, h.auth); err != nil {
		return nil, nil, err
	}
	c, err := h.b.collections.Get(db, msg.CollectionID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, c, nil
}

type distributePaymentHandler struct {
	auth x.Authenticator
	b    buckets
	tr   Transferrer
}

func (h *distributePaymentHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &revshare.CheckResult{}, nil
}

func (h *distributePaymentHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := revshare.CommitTime(ctx)
	if err != nil {
		return nil, err
	}

	d, c, msg, alloc := p.distributor, p.collection, p.msg, p.alloc

	if alloc.Fee > 0 {
		if err := h.tr.Transfer(db, d.Treasury, d.FeeCollector, alloc.Fee); err != nil {
			return nil, errors.Wrapf(errors.ErrTransfer, "fee: %s", err)
		}
	}
	paid := make([]*Share, 0, len(alloc.Shares))
	for _, s := range alloc.Shares {
		if s.Amount == 0 {
			continue
		}
		if err := h.tr.Transfer(db, d.Treasury, s.Holder, s.Amount); err != nil {
			return nil, errors.Wrapf(errors.ErrTransfer, "share of %s: %s", s.Holder, err)
		}
		paid = append(paid, s)
	}

	if d.TotalAmountDistributed > math.MaxUint64-msg.GrossAmount ||
		c.TotalDistributed > math.MaxUint64-msg.GrossAmount {
		return nil, errors.Wrap(errors.ErrOverflow, "distributed amount")
	}
	d.TotalDistributions++
	d.TotalAmountDistributed += msg.GrossAmount
	c.DistributionCount++
	c.TotalDistributed += msg.GrossAmount
	if err := h.b.distributor.Save(db, d); err != nil {
		return nil, errors.Wrap(err, "cannot save distributor")
	}
	if err := h.b.collections.Save(db, c); err != nil {
		return nil, errors.Wrap(err, "cannot save collection")
	}

	event := &DistributionEvent{
		CollectionID:    c.CollectionID,
		GrossAmount:     msg.GrossAmount,
		HolderCount:     uint64(len(msg.Holders)),
		AmountPerHolder: alloc.PerHolder,
		Timestamp:       revshare.AsUnixTime(now),
		Fee:             alloc.Fee,
		Remainder:       alloc.Remainder,
		RevenueModel:    c.RevenueModel,
		Allocations:     paid,
	}
	if _, err := h.b.events.Append(db, event); err != nil {
		return nil, errors.Wrap(err, "cannot append event")
	}
	raw, err := proto.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &revshare.DeliverResult{Data: raw, Log: "payment distributed"}, nil
}

type payment struct {
	msg         *DistributePaymentMsg
	distributor *Distributor
	collection  *CollectionConfig
	alloc       *Allocation
}

// validate checks the preconditions in order: the caller, the collection,
// the holders and finally the revenue model inputs.
func (h *distributePaymentHandler) validate(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*payment, error) {
	var msg DistributePaymentMsg
	if err := revshare.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	d, err := h.b.authorized(ctx, db, h.auth)
	if err != nil {
		return nil, err
	}
	c, err := h.b.collections.Get(db, msg.CollectionID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, errors.Wrapf(errors.ErrInactive, "collection %q", c.CollectionID)
	}
	if err := msg.validateHolders(); err != nil {
		return nil, err
	}

	splitter, err := SplitterFor(c.RevenueModel)
	if err != nil {
		return nil, err
	}
	alloc, err := splitter.Split(msg.GrossAmount, HolderContext{
		Holders:    msg.Holders,
		Weights:    msg.Weights,
		Creator:    msg.Creator,
		CreatorBps: msg.CreatorBps,
		FeeBps:     d.FeeBps,
		Policy:     d.RemainderPolicy,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s split", c.RevenueModel)
	}
	return &payment{msg: &msg, distributor: d, collection: c, alloc: alloc}, nil
}

type distributeBatchHandler struct {
	auth x.Authenticator
	b    buckets
	tr   Transferrer
}

func (h *distributeBatchHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &revshare.CheckResult{}, nil
}

// Deliver executes all transfers in input order. The first failure fails
// the whole batch and the host discards every transfer made so far.
func (h *distributeBatchHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	msg, d, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	for i, amount := range msg.Amounts {
		if amount == 0 {
			continue
		}
		if err := h.tr.Transfer(db, d.Treasury, msg.Accounts[i], amount); err != nil {
			return nil, errors.Wrapf(errors.ErrTransfer, "transfer %d to %s: %s", i, msg.Accounts[i], err)
		}
	}
	return &revshare.DeliverResult{Log: "batch distributed"}, nil
}

func (h *distributeBatchHandler) validate(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*DistributeBatchMsg, *Distributor, error) {
	var msg DistributeBatchMsg
	if err := revshare.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	d, err := h.b.authorized(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, d, nil
}

type distributeBatchBestEffortHandler struct {
	auth x.Authenticator
	b    buckets
	tr   Transferrer
}

func (h *distributeBatchBestEffortHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &revshare.CheckResult{}, nil
}

// Deliver executes every transfer in its own savepoint and reports the
// outcome of each. The operation succeeds even if all transfers fail.
func (h *distributeBatchBestEffortHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	msg, d, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	report := &BatchReport{Outcomes: make([]*BatchOutcome, 0, len(msg.Amounts))}
	for i, amount := range msg.Amounts {
		account := msg.Accounts[i]
		outcome := &BatchOutcome{Index: uint32(i), Account: account, Amount: amount, OK: true}
		err := utils.InSavepoint(db, func(db revshare.KVStore) error {
			if err := account.Validate(); err != nil {
				return err
			}
			if amount == 0 {
				return nil
			}
			return h.tr.Transfer(db, d.Treasury, account, amount)
		})
		if err != nil {
			outcome.OK = false
			outcome.Code = errors.Code(err)
			outcome.Error = err.Error()
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	raw, err := proto.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	if n := report.Failed(); n > 0 {
		revshare.GetLogger(ctx).Info("best effort batch incomplete", "failed", n, "total", len(report.Outcomes))
	}
	return &revshare.DeliverResult{Data: raw, Log: "batch distributed"}, nil
}

func (h *distributeBatchBestEffortHandler) validate(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*DistributeBatchBestEffortMsg, *Distributor, error) {
	var msg DistributeBatchBestEffortMsg
	if err := revshare.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	d, err := h.b.authorized(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, d, nil
}
