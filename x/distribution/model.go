package distribution

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/orm"
)

const (
	// BasisPoints is the denominator of all rates.
	BasisPoints = 10000

	// DefaultFeeBps is the platform fee rate used when none is configured.
	DefaultFeeBps = 250

	// MaxHolders limits the number of holders of a single distribution.
	MaxHolders = 500

	maxEndpointLength = 256
)

var isCollectionID = regexp.MustCompile(`^[a-zA-Z0-9_\-.:]{1,64}$`).MatchString

// RevenueModel selects how a payment is split between holders.
type RevenueModel int32

const (
	Equal RevenueModel = iota
	Weighted
	CreatorSplit
)

var revenueModelNames = map[RevenueModel]string{
	Equal:        "equal",
	Weighted:     "weighted",
	CreatorSplit: "creator_split",
}

func (m RevenueModel) String() string {
	if name, ok := revenueModelNames[m]; ok {
		return name
	}
	return "RevenueModel(" + strconv.Itoa(int(m)) + ")"
}

// ParseRevenueModel returns the model with given name.
func ParseRevenueModel(name string) (RevenueModel, error) {
	for m, n := range revenueModelNames {
		if n == name {
			return m, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown revenue model %q", name)
}

// MarshalJSON uses the model name.
func (m RevenueModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either the model name or its number. Numbers are
// not checked so that unknown models can still be decoded and rejected
// when used.
func (m *RevenueModel) UnmarshalJSON(raw []byte) error {
	var n int32
	if err := json.Unmarshal(raw, &n); err == nil {
		*m = RevenueModel(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "revenue model must be a name or a number")
	}
	parsed, err := ParseRevenueModel(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// RemainderPolicy decides what happens to the amount left over by the
// floor division of a distribution.
type RemainderPolicy int32

const (
	// Retain leaves the remainder in the treasury.
	Retain RemainderPolicy = iota
	// LastHolder pays the remainder to the last holder.
	LastHolder
)

func (p RemainderPolicy) String() string {
	switch p {
	case Retain:
		return "retain"
	case LastHolder:
		return "last_holder"
	}
	return "RemainderPolicy(" + strconv.Itoa(int(p)) + ")"
}

// ParseRemainderPolicy returns the policy with given name.
func ParseRemainderPolicy(name string) (RemainderPolicy, error) {
	switch name {
	case "retain", "":
		return Retain, nil
	case "last_holder":
		return LastHolder, nil
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown remainder policy %q", name)
}

// MarshalJSON uses the policy name.
func (p RemainderPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the policy name.
func (p *RemainderPolicy) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "remainder policy must be a name")
	}
	parsed, err := ParseRemainderPolicy(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Distributor is the singleton configuration and global aggregate of the
// ledger.
type Distributor struct {
	Authority              revshare.Address `protobuf:"bytes,1,opt,name=authority,proto3" json:"authority"`
	TotalDistributions     uint64           `protobuf:"varint,2,opt,name=total_distributions,proto3" json:"total_distributions"`
	TotalAmountDistributed uint64           `protobuf:"varint,3,opt,name=total_amount_distributed,proto3" json:"total_amount_distributed"`
	FeeBps                 uint32           `protobuf:"varint,4,opt,name=fee_bps,proto3" json:"fee_bps"`
	Treasury               revshare.Address `protobuf:"bytes,5,opt,name=treasury,proto3" json:"treasury"`
	FeeCollector           revshare.Address `protobuf:"bytes,6,opt,name=fee_collector,proto3" json:"fee_collector"`
	RemainderPolicy        RemainderPolicy  `protobuf:"varint,7,opt,name=remainder_policy,proto3" json:"remainder_policy"`
}

func (m *Distributor) Reset()         { *m = Distributor{} }
func (m *Distributor) String() string { return proto.CompactTextString(m) }
func (*Distributor) ProtoMessage()    {}

// Validate returns an error if the configuration is not usable.
func (m *Distributor) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.AppendField(errs, "Treasury", m.Treasury.Validate())
	errs = errors.AppendField(errs, "FeeCollector", m.FeeCollector.Validate())
	if m.FeeBps > BasisPoints {
		errs = errors.AppendField(errs, "FeeBps", errors.Wrapf(errors.ErrInput, "must not exceed %d", BasisPoints))
	}
	switch m.RemainderPolicy {
	case Retain, LastHolder:
	default:
		errs = errors.AppendField(errs, "RemainderPolicy", errors.Wrapf(errors.ErrInput, "unknown policy %d", m.RemainderPolicy))
	}
	return errs
}

// CollectionConfig is a registered collection together with its
// distribution aggregates.
type CollectionConfig struct {
	CollectionID      string            `protobuf:"bytes,1,opt,name=collection_id,proto3" json:"collection_id"`
	PayoutEndpoint    string            `protobuf:"bytes,2,opt,name=payout_endpoint,proto3" json:"payout_endpoint"`
	RevenueModel      RevenueModel      `protobuf:"varint,3,opt,name=revenue_model,proto3" json:"revenue_model"`
	TotalDistributed  uint64            `protobuf:"varint,4,opt,name=total_distributed,proto3" json:"total_distributed"`
	DistributionCount uint64            `protobuf:"varint,5,opt,name=distribution_count,proto3" json:"distribution_count"`
	IsActive          bool              `protobuf:"varint,6,opt,name=is_active,proto3" json:"is_active"`
	RegisteredAt      revshare.UnixTime `protobuf:"varint,7,opt,name=registered_at,proto3" json:"registered_at"`
}

func (m *CollectionConfig) Reset()         { *m = CollectionConfig{} }
func (m *CollectionConfig) String() string { return proto.CompactTextString(m) }
func (*CollectionConfig) ProtoMessage()    {}

// Validate returns an error if the collection cannot be stored.
func (m *CollectionConfig) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CollectionID", validateCollectionID(m.CollectionID))
	errs = errors.AppendField(errs, "RevenueModel", validateRevenueModel(m.RevenueModel))
	errs = errors.AppendField(errs, "PayoutEndpoint", validateEndpoint(m.PayoutEndpoint))
	errs = errors.AppendField(errs, "RegisteredAt", m.RegisteredAt.Validate())
	return errs
}

// Share is an amount paid to a single account.
type Share struct {
	Holder revshare.Address `protobuf:"bytes,1,opt,name=holder,proto3" json:"holder"`
	Amount uint64           `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

func (m *Share) Reset()         { *m = Share{} }
func (m *Share) String() string { return proto.CompactTextString(m) }
func (*Share) ProtoMessage()    {}

// DistributionEvent is the immutable record of a single payment
// distribution.
type DistributionEvent struct {
	CollectionID    string            `protobuf:"bytes,1,opt,name=collection_id,proto3" json:"collection_id"`
	GrossAmount     uint64            `protobuf:"varint,2,opt,name=gross_amount,proto3" json:"gross_amount"`
	HolderCount     uint64            `protobuf:"varint,3,opt,name=holder_count,proto3" json:"holder_count"`
	AmountPerHolder uint64            `protobuf:"varint,4,opt,name=amount_per_holder,proto3" json:"amount_per_holder"`
	Timestamp       revshare.UnixTime `protobuf:"varint,5,opt,name=timestamp,proto3" json:"timestamp"`
	Fee             uint64            `protobuf:"varint,6,opt,name=fee,proto3" json:"fee"`
	Remainder       uint64            `protobuf:"varint,7,opt,name=remainder,proto3" json:"remainder"`
	RevenueModel    RevenueModel      `protobuf:"varint,8,opt,name=revenue_model,proto3" json:"revenue_model"`
	Allocations     []*Share          `protobuf:"bytes,9,rep,name=allocations,proto3" json:"allocations"`
}

func (m *DistributionEvent) Reset()         { *m = DistributionEvent{} }
func (m *DistributionEvent) String() string { return proto.CompactTextString(m) }
func (*DistributionEvent) ProtoMessage()    {}

// Validate checks that the event is internally consistent.
func (m *DistributionEvent) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CollectionID", validateCollectionID(m.CollectionID))
	if m.HolderCount == 0 {
		errs = errors.AppendField(errs, "HolderCount", errors.ErrNoHolders)
	}
	if m.Fee > m.GrossAmount {
		errs = errors.AppendField(errs, "Fee", errors.Wrap(errors.ErrState, "fee exceeds gross amount"))
	}
	for i, s := range m.Allocations {
		if err := s.Holder.Validate(); err != nil {
			errs = errors.AppendField(errs, "Allocations", errors.Wrapf(err, "allocation %d", i))
		}
	}
	return errs
}

// BatchOutcome reports the result of a single transfer of a best effort
// batch.
type BatchOutcome struct {
	Index   uint32           `protobuf:"varint,1,opt,name=index,proto3" json:"index"`
	Account revshare.Address `protobuf:"bytes,2,opt,name=account,proto3" json:"account"`
	Amount  uint64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
	OK      bool             `protobuf:"varint,4,opt,name=ok,proto3" json:"ok"`
	Code    uint32           `protobuf:"varint,5,opt,name=code,proto3" json:"code,omitempty"`
	Error   string           `protobuf:"bytes,6,opt,name=error,proto3" json:"error,omitempty"`
}

func (m *BatchOutcome) Reset()         { *m = BatchOutcome{} }
func (m *BatchOutcome) String() string { return proto.CompactTextString(m) }
func (*BatchOutcome) ProtoMessage()    {}

// BatchReport lists the outcome of every transfer of a best effort batch,
// in input order.
type BatchReport struct {
	Outcomes []*BatchOutcome `protobuf:"bytes,1,rep,name=outcomes,proto3" json:"outcomes"`
}

func (m *BatchReport) Reset()         { *m = BatchReport{} }
func (m *BatchReport) String() string { return proto.CompactTextString(m) }
func (*BatchReport) ProtoMessage()    {}

// Failed returns the number of transfers that did not succeed.
func (m *BatchReport) Failed() int {
	var n int
	for _, o := range m.Outcomes {
		if !o.OK {
			n++
		}
	}
	return n
}

func validateCollectionID(id string) error {
	if id == "" {
		return errors.Wrap(errors.ErrEmpty, "collection id")
	}
	if !isCollectionID(id) {
		return errors.Wrapf(errors.ErrInput, "invalid collection id %q", id)
	}
	return nil
}

func validateRevenueModel(m RevenueModel) error {
	if _, err := SplitterFor(m); err != nil {
		return errors.Wrapf(errors.ErrInput, "unknown revenue model %s", m)
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	if len(endpoint) > maxEndpointLength {
		return errors.Wrapf(errors.ErrInput, "payout endpoint longer than %d bytes", maxEndpointLength)
	}
	return nil
}

const distributorKey = "config"

// DistributorBucket stores the distributor singleton.
type DistributorBucket struct {
	orm.ModelBucket
}

// NewDistributorBucket returns a bucket for the distributor.
func NewDistributorBucket() DistributorBucket {
	return DistributorBucket{orm.NewModelBucket("distributor", &Distributor{})}
}

// Load returns the distributor. ErrNotFound is returned if the ledger was
// not initialized.
func (b DistributorBucket) Load(db revshare.ReadOnlyKVStore) (*Distributor, error) {
	var d Distributor
	if err := b.One(db, []byte(distributorKey), &d); err != nil {
		return nil, errors.Wrap(err, "distributor not initialized")
	}
	return &d, nil
}

// Exists returns true if the distributor was created.
func (b DistributorBucket) Exists(db revshare.ReadOnlyKVStore) (bool, error) {
	switch err := b.Has(db, []byte(distributorKey)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Save stores the distributor.
func (b DistributorBucket) Save(db revshare.KVStore, d *Distributor) error {
	_, err := b.Put(db, []byte(distributorKey), d)
	return err
}

// CollectionBucket stores collections keyed by their id.
type CollectionBucket struct {
	orm.ModelBucket
}

// NewCollectionBucket returns a bucket for collections.
func NewCollectionBucket() CollectionBucket {
	return CollectionBucket{orm.NewModelBucket("collection", &CollectionConfig{})}
}

// Get returns the collection with given id or ErrNotFound.
func (b CollectionBucket) Get(db revshare.ReadOnlyKVStore, id string) (*CollectionConfig, error) {
	var c CollectionConfig
	if err := b.One(db, []byte(id), &c); err != nil {
		return nil, errors.Wrapf(err, "collection %q", id)
	}
	return &c, nil
}

// Save stores the collection under its id.
func (b CollectionBucket) Save(db revshare.KVStore, c *CollectionConfig) error {
	_, err := b.Put(db, []byte(c.CollectionID), c)
	return err
}

// List returns all collections ordered by id.
func (b CollectionBucket) List(db revshare.ReadOnlyKVStore) ([]*CollectionConfig, error) {
	var res []*CollectionConfig
	if _, err := b.All(db, &res, false, 0, 0); err != nil {
		return nil, err
	}
	return res, nil
}

// EventBucket stores the append only distribution history.
type EventBucket struct {
	orm.ModelBucket
}

// NewEventBucket returns a bucket for distribution events, indexed by
// collection.
func NewEventBucket() EventBucket {
	b := orm.NewModelBucket("distevent", &DistributionEvent{},
		orm.WithIDSequence(),
		orm.WithIndex("collection", eventCollection, false),
	)
	return EventBucket{b}
}

func eventCollection(m orm.Model) ([]byte, error) {
	e, ok := m.(*DistributionEvent)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", m)
	}
	return []byte(e.CollectionID), nil
}

// Append stores a new event and returns its key.
func (b EventBucket) Append(db revshare.KVStore, e *DistributionEvent) ([]byte, error) {
	return b.Put(db, nil, e)
}

// ByCollection returns events of given collection in append order. A
// positive limit returns only that many of the most recent events.
func (b EventBucket) ByCollection(db revshare.ReadOnlyKVStore, id string, limit int) ([]*DistributionEvent, error) {
	var res []*DistributionEvent
	if _, err := b.ByIndex(db, "collection", []byte(id), &res); err != nil {
		return nil, err
	}
	if limit > 0 && len(res) > limit {
		res = res[len(res)-limit:]
	}
	return res, nil
}
