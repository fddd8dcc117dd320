package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/revshare/orm"
)

// Wallet holds the balance of a single address.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

// Validate always succeeds, any balance is valid.
func (m *Wallet) Validate() error {
	return nil
}

// NewBucket returns a bucket for storing wallets, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}
