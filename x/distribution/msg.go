package distribution

import (
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

const (
	pathInitializeMsg                = "distribution/initialize"
	pathRegisterCollectionMsg        = "distribution/register_collection"
	pathSetCollectionActiveMsg       = "distribution/set_collection_active"
	pathDistributePaymentMsg         = "distribution/distribute_payment"
	pathDistributeBatchMsg           = "distribution/distribute_batch"
	pathDistributeBatchBestEffortMsg = "distribution/distribute_batch_best_effort"
)

// InitializeMsg creates the distributor. It must be signed by the
// authority.
type InitializeMsg struct {
	Authority       revshare.Address `json:"authority"`
	Treasury        revshare.Address `json:"treasury"`
	FeeCollector    revshare.Address `json:"fee_collector"`
	FeeBps          uint32           `json:"fee_bps"`
	RemainderPolicy RemainderPolicy  `json:"remainder_policy"`
}

var _ revshare.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

func (m *InitializeMsg) Validate() error {
	d := Distributor{
		Authority:       m.Authority,
		Treasury:        m.Treasury,
		FeeCollector:    m.FeeCollector,
		FeeBps:          m.FeeBps,
		RemainderPolicy: m.RemainderPolicy,
	}
	return d.Validate()
}

// RegisterCollectionMsg registers a new collection. Collections are active
// once registered.
type RegisterCollectionMsg struct {
	CollectionID   string       `json:"collection_id"`
	PayoutEndpoint string       `json:"payout_endpoint"`
	RevenueModel   RevenueModel `json:"revenue_model"`
}

var _ revshare.Msg = (*RegisterCollectionMsg)(nil)

func (RegisterCollectionMsg) Path() string {
	return pathRegisterCollectionMsg
}

func (m *RegisterCollectionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CollectionID", validateCollectionID(m.CollectionID))
	errs = errors.AppendField(errs, "RevenueModel", validateRevenueModel(m.RevenueModel))
	errs = errors.AppendField(errs, "PayoutEndpoint", validateEndpoint(m.PayoutEndpoint))
	return errs
}

// SetCollectionActiveMsg enables or disables distributions to a
// collection.
type SetCollectionActiveMsg struct {
	CollectionID string `json:"collection_id"`
	Active       bool   `json:"active"`
}

var _ revshare.Msg = (*SetCollectionActiveMsg)(nil)

func (SetCollectionActiveMsg) Path() string {
	return pathSetCollectionActiveMsg
}

func (m *SetCollectionActiveMsg) Validate() error {
	return errors.Field("CollectionID", validateCollectionID(m.CollectionID), "")
}

// DistributePaymentMsg splits a payment between the holders of a
// collection.
//
// Holder related requirements are checked by the handler, after the
// caller and the collection, so that an unauthorized caller learns nothing
// about the state.
type DistributePaymentMsg struct {
	CollectionID string             `json:"collection_id"`
	GrossAmount  uint64             `json:"gross_amount"`
	Holders      []revshare.Address `json:"holders"`
	// Weights are used by the weighted revenue model only.
	Weights []uint64 `json:"weights,omitempty"`
	// Creator and CreatorBps are used by the creator split revenue model
	// only.
	Creator    revshare.Address `json:"creator,omitempty"`
	CreatorBps uint32           `json:"creator_bps,omitempty"`
}

var _ revshare.Msg = (*DistributePaymentMsg)(nil)

func (DistributePaymentMsg) Path() string {
	return pathDistributePaymentMsg
}

func (m *DistributePaymentMsg) Validate() error {
	return errors.Field("CollectionID", validateCollectionID(m.CollectionID), "")
}

// validateHolders checks holder requirements of a payment.
func (m *DistributePaymentMsg) validateHolders() error {
	switch n := len(m.Holders); {
	case n == 0:
		return errors.Wrap(errors.ErrNoHolders, "holders")
	case n > MaxHolders:
		return errors.Wrapf(errors.ErrInput, "more than %d holders", MaxHolders)
	}
	seen := make(map[string]struct{}, len(m.Holders))
	for i, h := range m.Holders {
		if err := h.Validate(); err != nil {
			return errors.Field("Holders", err, "holder %d", i)
		}
		if _, ok := seen[string(h)]; ok {
			return errors.Field("Holders", errors.ErrDuplicate, "holder %s", h)
		}
		seen[string(h)] = struct{}{}
	}
	if m.GrossAmount == 0 {
		return errors.Field("GrossAmount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// DistributeBatchMsg pays each account the amount at the same index. All
// transfers succeed or none does.
type DistributeBatchMsg struct {
	Amounts  []uint64           `json:"amounts"`
	Accounts []revshare.Address `json:"accounts"`
}

var _ revshare.Msg = (*DistributeBatchMsg)(nil)

func (DistributeBatchMsg) Path() string {
	return pathDistributeBatchMsg
}

func (m *DistributeBatchMsg) Validate() error {
	return validateBatch(m.Amounts, m.Accounts)
}

// DistributeBatchBestEffortMsg pays each account the amount at the same
// index. Failed transfers are reported and do not affect the others.
type DistributeBatchBestEffortMsg struct {
	Amounts  []uint64           `json:"amounts"`
	Accounts []revshare.Address `json:"accounts"`
}

var _ revshare.Msg = (*DistributeBatchBestEffortMsg)(nil)

func (DistributeBatchBestEffortMsg) Path() string {
	return pathDistributeBatchBestEffortMsg
}

// Validate checks only that the lists match. Invalid accounts are
// reported as failed transfers.
func (m *DistributeBatchBestEffortMsg) Validate() error {
	if len(m.Amounts) != len(m.Accounts) {
		return errors.Wrapf(errors.ErrAccountMismatch, "%d amounts for %d accounts", len(m.Amounts), len(m.Accounts))
	}
	return nil
}

func validateBatch(amounts []uint64, accounts []revshare.Address) error {
	if len(amounts) != len(accounts) {
		return errors.Wrapf(errors.ErrAccountMismatch, "%d amounts for %d accounts", len(amounts), len(accounts))
	}
	var errs error
	for i, a := range accounts {
		if err := a.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Accounts", err, "account %d", i))
		}
	}
	return errs
}
