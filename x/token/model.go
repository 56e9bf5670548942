package token

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

const (
	// BucketName is where we store the token descriptions
	BucketName = "token"

	balanceBucketName   = "token_balance"
	allowanceBucketName = "token_allowance"
)

var (
	isTokenName   = regexp.MustCompile(`^[\w\- ]{1,32}$`).MatchString
	isTokenSymbol = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,7}$`).MatchString
)

// Token describes a fungible asset.
type Token struct {
	Metadata *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Name     string             `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Symbol   string             `protobuf:"bytes,3,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Issuer   timelock.Address   `protobuf:"bytes,4,opt,name=issuer,proto3" json:"issuer,omitempty"`
	// Supply is the total amount of the token in circulation.
	Supply uint64 `protobuf:"varint,5,opt,name=supply,proto3" json:"supply,omitempty"`
}

func (m *Token) Reset()         { *m = Token{} }
func (m *Token) String() string { return proto.CompactTextString(m) }
func (*Token) ProtoMessage()    {}

var _ orm.Model = (*Token)(nil)

func (t *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	if !isTokenName(t.Name) {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrInput, "invalid token name %q", t.Name))
	}
	if !isTokenSymbol(t.Symbol) {
		errs = errors.Append(errs, errors.Field("Symbol", errors.ErrInput, "invalid token symbol %q", t.Symbol))
	}
	errs = errors.AppendField(errs, "Issuer", t.Issuer.Validate())
	return errs
}

// Holding is an amount of a token. It is used both for balances and
// allowances.
type Holding struct {
	Metadata *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Amount   uint64             `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Holding) Reset()         { *m = Holding{} }
func (m *Holding) String() string { return proto.CompactTextString(m) }
func (*Holding) ProtoMessage()    {}

var _ orm.Model = (*Holding)(nil)

func (h *Holding) Validate() error {
	return errors.AppendField(nil, "Metadata", h.Metadata.Validate())
}

// Address returns the address of the token with given sequence ID.
func Address(id []byte) timelock.Address {
	return timelock.NewCondition("token", "seq", id).Address()
}

// NewBucket returns the bucket of token descriptions, keyed by the token
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Token{},
		orm.WithIndex("issuer", issuerIndex, false),
	)
}

func issuerIndex(obj orm.Model) ([]byte, error) {
	t, ok := obj.(*Token)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj)
	}
	return t.Issuer, nil
}

// newBalanceBucket is keyed by the token address followed by the holder
// address.
func newBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket(balanceBucketName, &Holding{})
}

// newAllowanceBucket is keyed by the token address followed by the owner
// and the spender addresses.
func newAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket(allowanceBucketName, &Holding{})
}

func balanceKey(token, holder timelock.Address) []byte {
	return joinKey(token, holder)
}

func allowanceKey(token, owner, spender timelock.Address) []byte {
	return joinKey(token, owner, spender)
}

func joinKey(parts ...timelock.Address) []byte {
	var key []byte
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func newHolding(amount uint64) *Holding {
	return &Holding{Metadata: &timelock.Metadata{Schema: 1}, Amount: amount}
}
