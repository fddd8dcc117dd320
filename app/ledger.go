package app

import (
	"context"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/x"
	"github.com/iov-one/revshare/x/cash"
	"github.com/iov-one/revshare/x/distribution"
	"github.com/iov-one/revshare/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger is the transaction host of the revenue distribution ledger. It
// serializes all mutating operations and executes each of them as a single
// transaction that is committed only on success. Reads see committed state
// only.
type Ledger struct {
	mu      sync.RWMutex
	store   *CommitStore
	handler revshare.Handler
	init    revshare.Initializer
	clock   revshare.Clock
	logger  log.Logger
	auths   []x.Authenticator

	distributors distribution.DistributorBucket
	collections  distribution.CollectionBucket
	events       distribution.EventBucket
	cash         cash.Controller
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used to stamp operations.
func WithClock(c revshare.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithLogger sets the logger passed to handlers.
func WithLogger(logger log.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithAuthenticator adds an authenticator consulted after the signer of
// the operation.
func WithAuthenticator(a x.Authenticator) Option {
	return func(l *Ledger) { l.auths = append(l.auths, a) }
}

// NewLedger loads the latest committed state of given store and returns a
// ledger operating on it.
func NewLedger(kv revshare.CommitKVStore, opts ...Option) (*Ledger, error) {
	cs, err := NewCommitStore(kv)
	if err != nil {
		return nil, err
	}

	ctrl := cash.NewController()
	l := &Ledger{
		store: cs,
		init: ChainInitializers(
			cash.Initializer{},
			distribution.Initializer{},
		),
		clock:        revshare.SystemClock{},
		logger:       log.NewNopLogger(),
		distributors: distribution.NewDistributorBucket(),
		collections:  distribution.NewCollectionBucket(),
		events:       distribution.NewEventBucket(),
		cash:         ctrl,
	}
	for _, o := range opts {
		o(l)
	}

	auth := x.ChainAuth(append([]x.Authenticator{x.SignerAuth{}}, l.auths...)...)
	router := NewRouter()
	distribution.RegisterRoutes(router, auth, ctrl)
	l.handler = ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(auth),
		utils.NewMetrics(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
	return l, nil
}

// InitGenesis loads the genesis state. It can be done only once in the
// lifetime of a store.
func (l *Ledger) InitGenesis(gen *Genesis) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.store.Update(func(db revshare.KVCacheWrap) error {
		if err := saveLedgerID(db, gen.LedgerID); err != nil {
			return err
		}
		return l.init.FromGenesis(gen.AppOptions, db)
	})
	if err != nil {
		return errors.Wrap(err, "genesis")
	}
	commitVersion.Set(float64(id.Version))
	l.logger.Info("genesis loaded", "ledger_id", gen.LedgerID, "version", id.Version)
	return nil
}

// LedgerID returns the id set by the genesis, or an empty string if no
// genesis was loaded.
func (l *Ledger) LedgerID() (string, error) {
	var id string
	err := l.view(func(db revshare.ReadOnlyKVStore) error {
		var err error
		id, err = loadLedgerID(db)
		return err
	})
	return id, err
}

// Deliver executes the message on behalf of the signer and commits the
// result. Nothing is persisted if the execution fails.
func (l *Ledger) Deliver(ctx context.Context, signer revshare.Condition, msg revshare.Msg) (*revshare.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res *revshare.DeliverResult
	id, err := l.store.Update(func(db revshare.KVCacheWrap) error {
		var err error
		res, err = l.handler.Deliver(l.context(ctx, signer), db, tx{msg: msg})
		return err
	})
	if err != nil {
		return nil, err
	}
	commitVersion.Set(float64(id.Version))
	l.observe(msg, res)
	return res, nil
}

// Check validates the message as if it was delivered by the signer
// without executing it.
func (l *Ledger) Check(ctx context.Context, signer revshare.Condition, msg revshare.Msg) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.store.View(func(db revshare.KVCacheWrap) error {
		_, err := l.handler.Check(l.context(ctx, signer), db, tx{msg: msg})
		return err
	})
}

func (l *Ledger) context(ctx context.Context, signer revshare.Condition) revshare.Context {
	ctx = revshare.WithLogger(ctx, l.logger)
	ctx = revshare.WithCommitTime(ctx, l.clock.Now())
	if signer != nil {
		ctx = x.WithSigners(ctx, signer)
	}
	return ctx
}

// observe updates metrics of a committed operation.
func (l *Ledger) observe(msg revshare.Msg, res *revshare.DeliverResult) {
	switch m := msg.(type) {
	case *distribution.DistributePaymentMsg:
		var e distribution.DistributionEvent
		if err := proto.Unmarshal(res.Data, &e); err != nil {
			l.logger.Error("cannot decode distribution event", "err", err)
			return
		}
		observeDistribution(&e)
	case *distribution.DistributeBatchMsg:
		var n int
		for _, a := range m.Amounts {
			if a > 0 {
				n++
			}
		}
		observeBatch(n, 0)
	case *distribution.DistributeBatchBestEffortMsg:
		var r distribution.BatchReport
		if err := proto.Unmarshal(res.Data, &r); err != nil {
			l.logger.Error("cannot decode batch report", "err", err)
			return
		}
		failed := r.Failed()
		observeBatch(len(r.Outcomes)-failed, failed)
	}
}

// Initialize creates the distributor. The signer must be the authority.
func (l *Ledger) Initialize(ctx context.Context, signer revshare.Condition, msg *distribution.InitializeMsg) error {
	_, err := l.Deliver(ctx, signer, msg)
	return err
}

// RegisterCollection registers a new, active collection.
func (l *Ledger) RegisterCollection(ctx context.Context, signer revshare.Condition, msg *distribution.RegisterCollectionMsg) error {
	_, err := l.Deliver(ctx, signer, msg)
	return err
}

// SetCollectionActive enables or disables distributions of a collection.
func (l *Ledger) SetCollectionActive(ctx context.Context, signer revshare.Condition, collectionID string, active bool) error {
	_, err := l.Deliver(ctx, signer, &distribution.SetCollectionActiveMsg{
		CollectionID: collectionID,
		Active:       active,
	})
	return err
}

// DistributePayment splits the payment between holders and returns the
// recorded event.
func (l *Ledger) DistributePayment(ctx context.Context, signer revshare.Condition, msg *distribution.DistributePaymentMsg) (*distribution.DistributionEvent, error) {
	res, err := l.Deliver(ctx, signer, msg)
	if err != nil {
		return nil, err
	}
	var e distribution.DistributionEvent
	if err := proto.Unmarshal(res.Data, &e); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &e, nil
}

// DistributeBatch executes all transfers of the batch or none.
func (l *Ledger) DistributeBatch(ctx context.Context, signer revshare.Condition, msg *distribution.DistributeBatchMsg) error {
	_, err := l.Deliver(ctx, signer, msg)
	return err
}

// DistributeBatchBestEffort executes every transfer that can succeed and
// reports the outcome of each.
func (l *Ledger) DistributeBatchBestEffort(ctx context.Context, signer revshare.Condition, msg *distribution.DistributeBatchBestEffortMsg) (*distribution.BatchReport, error) {
	res, err := l.Deliver(ctx, signer, msg)
	if err != nil {
		return nil, err
	}
	var r distribution.BatchReport
	if err := proto.Unmarshal(res.Data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &r, nil
}

// GetStats returns the collection snapshot. No authorization is required.
func (l *Ledger) GetStats(collectionID string) (*distribution.CollectionConfig, error) {
	var c *distribution.CollectionConfig
	err := l.view(func(db revshare.ReadOnlyKVStore) error {
		var err error
		c, err = l.collections.Get(db, collectionID)
		return err
	})
	return c, err
}

// GetDistributor returns the distributor configuration and totals.
func (l *Ledger) GetDistributor() (*distribution.Distributor, error) {
	var d *distribution.Distributor
	err := l.view(func(db revshare.ReadOnlyKVStore) error {
		var err error
		d, err = l.distributors.Load(db)
		return err
	})
	return d, err
}

// ListCollections returns all collections ordered by id.
func (l *Ledger) ListCollections() ([]*distribution.CollectionConfig, error) {
	var res []*distribution.CollectionConfig
	err := l.view(func(db revshare.ReadOnlyKVStore) error {
		var err error
		res, err = l.collections.List(db)
		return err
	})
	return res, err
}

// ListDistributions returns the distribution history of a collection in
// execution order. A positive limit returns only the most recent events.
func (l *Ledger) ListDistributions(collectionID string, limit int) ([]*distribution.DistributionEvent, error) {
	var res []*distribution.DistributionEvent
	err := l.view(func(db revshare.ReadOnlyKVStore) error {
		if err := l.collections.Has(db, []byte(collectionID)); err != nil {
			return errors.Wrapf(err, "collection %q", collectionID)
		}
		var err error
		res, err = l.events.ByCollection(db, collectionID, limit)
		return err
	})
	return res, err
}

// Balance returns the wallet balance of given address.
func (l *Ledger) Balance(addr revshare.Address) (uint64, error) {
	var b uint64
	err := l.view(func(db revshare.ReadOnlyKVStore) error {
		var err error
		b, err = l.cash.Balance(db, addr)
		return err
	})
	return b, err
}

// CommitInfo returns the latest committed version.
func (l *Ledger) CommitInfo() (revshare.CommitID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.CommitInfo()
}

// Close releases the store. The ledger must not be used afterwards.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close()
}

func (l *Ledger) view(fn func(revshare.ReadOnlyKVStore) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.View(func(db revshare.KVCacheWrap) error {
		return fn(db)
	})
}

// tx carries a single message through the handler stack.
type tx struct {
	msg revshare.Msg
}

var _ revshare.Tx = tx{}

func (t tx) GetMsg() (revshare.Msg, error) {
	return t.msg, nil
}
