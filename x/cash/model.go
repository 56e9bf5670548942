package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native coins owned by one address.
type Wallet struct {
	Metadata *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Balance  uint64             `protobuf:"varint,2,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

var _ orm.Model = (*Wallet)(nil)

// Validate requires the wallet metadata to be set.
func (w *Wallet) Validate() error {
	return errors.AppendField(nil, "Metadata", w.Metadata.Validate())
}

// Add increases the balance, failing on overflow.
func (w *Wallet) Add(amount uint64) error {
	sum := w.Balance + amount
	if sum < w.Balance {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Balance = sum
	return nil
}

// Subtract decreases the balance, failing if it is not enough.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// NewBucket returns the bucket holding all wallets, keyed by the owner
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}

func newWallet() *Wallet {
	return &Wallet{Metadata: &timelock.Metadata{Schema: 1}}
}
