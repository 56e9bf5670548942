package vesting

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// AssetKind tells which asset an escrow holds.
type AssetKind int32

const (
	AssetNone AssetKind = iota
	AssetNative
	AssetFungible
)

func (k AssetKind) String() string {
	switch k {
	case AssetNone:
		return "none"
	case AssetNative:
		return "native"
	case AssetFungible:
		return "fungible"
	default:
		return fmt.Sprintf("AssetKind(%d)", int32(k))
	}
}

// Asset is the kind of the held asset. Token is set only for the fungible
// kind.
type Asset struct {
	Kind  AssetKind        `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Token timelock.Address `protobuf:"bytes,2,opt,name=token,proto3" json:"token,omitempty"`
}

func (m *Asset) Reset()         { *m = Asset{} }
func (m *Asset) String() string { return proto.CompactTextString(m) }
func (*Asset) ProtoMessage()    {}

// NativeAsset returns the native currency asset.
func NativeAsset() *Asset {
	return &Asset{Kind: AssetNative}
}

// FungibleAsset returns the asset of the token with given address.
func FungibleAsset(token timelock.Address) *Asset {
	return &Asset{Kind: AssetFungible, Token: token}
}

func (a *Asset) Validate() error {
	if a == nil {
		return errors.Wrap(errors.ErrEmpty, "asset")
	}
	switch a.Kind {
	case AssetNone, AssetNative:
		if len(a.Token) != 0 {
			return errors.Wrapf(errors.ErrState, "%s asset with a token", a.Kind)
		}
		return nil
	case AssetFungible:
		return errors.Wrap(a.Token.Validate(), "token")
	default:
		return errors.Wrapf(errors.ErrState, "unknown asset kind %d", a.Kind)
	}
}

// Escrow holds a single asset for the beneficiary until the unlock time.
type Escrow struct {
	Metadata    *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner       timelock.Address   `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	Beneficiary timelock.Address   `protobuf:"bytes,3,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Asset       *Asset             `protobuf:"bytes,4,opt,name=asset,proto3" json:"asset,omitempty"`
	Amount      uint64             `protobuf:"varint,5,opt,name=amount,proto3" json:"amount,omitempty"`
	UnlockTime  timelock.UnixTime  `protobuf:"varint,6,opt,name=unlock_time,json=unlockTime,proto3" json:"unlock_time,omitempty"`
	Funded      bool               `protobuf:"varint,7,opt,name=funded,proto3" json:"funded,omitempty"`
	Withdrawn   bool               `protobuf:"varint,8,opt,name=withdrawn,proto3" json:"withdrawn,omitempty"`
	// Address holds the escrowed assets.
	Address timelock.Address `protobuf:"bytes,9,opt,name=address,proto3" json:"address,omitempty"`
}

func (m *Escrow) Reset()         { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage()    {}

var _ orm.Model = (*Escrow)(nil)

// NewEscrow returns an unfunded escrow with given ID.
func NewEscrow(id []byte, owner, beneficiary timelock.Address) *Escrow {
	return &Escrow{
		Metadata:    &timelock.Metadata{Schema: 1},
		Owner:       owner,
		Beneficiary: beneficiary,
		Asset:       &Asset{Kind: AssetNone},
		Address:     Condition(id).Address(),
	}
}

// Validate ensures the escrow is in one of its lifecycle states.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", e.Owner.Validate())
	if e.Beneficiary.IsZero() {
		errs = errors.Append(errs, errors.Field("Beneficiary", ErrInvalidBeneficiary, "null identity"))
	} else {
		errs = errors.AppendField(errs, "Beneficiary", e.Beneficiary.Validate())
	}
	errs = errors.AppendField(errs, "Address", e.Address.Validate())
	errs = errors.AppendField(errs, "Asset", e.Asset.Validate())
	if errs != nil {
		return errs
	}
	if err := e.UnlockTime.Validate(); err != nil {
		return errors.Field("UnlockTime", err, "invalid unlock time")
	}

	if !e.Funded {
		if e.Asset.Kind != AssetNone || e.Amount != 0 || e.UnlockTime != 0 {
			return errors.Wrap(errors.ErrState, "unfunded escrow with an asset")
		}
		if e.Withdrawn {
			return errors.Wrap(errors.ErrState, "withdrawn escrow was never funded")
		}
		return nil
	}
	if e.Asset.Kind == AssetNone || e.Amount == 0 || e.UnlockTime == 0 {
		return errors.Wrap(errors.ErrState, "funded escrow without an asset")
	}
	return nil
}

// fund moves the escrow into the funded state. Asset, amount and unlock
// time cannot change afterwards.
func (e *Escrow) fund(a *Asset, amount uint64, unlock timelock.UnixTime) {
	e.Asset = a
	e.Amount = amount
	e.UnlockTime = unlock
	e.Funded = true
}

// Condition returns the condition of the escrow with given ID. The address
// of this condition holds the escrowed assets.
func Condition(id []byte) timelock.Condition {
	return timelock.NewCondition("vesting", "seq", id)
}

var escrowSeq = orm.NewSequence("vesting", "id")

// NewBucket returns the bucket of all escrows, keyed by sequence IDs and
// indexed by owner and beneficiary.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("vesting", &Escrow{},
		orm.WithIDSequence(escrowSeq),
		orm.WithIndex("owner", ownerIndex, false),
		orm.WithIndex("beneficiary", beneficiaryIndex, false),
	)
}

func ownerIndex(obj orm.Model) ([]byte, error) {
	e, err := asEscrow(obj)
	if err != nil {
		return nil, err
	}
	return e.Owner, nil
}

func beneficiaryIndex(obj orm.Model) ([]byte, error) {
	e, err := asEscrow(obj)
	if err != nil {
		return nil, err
	}
	return e.Beneficiary, nil
}

func asEscrow(obj orm.Model) (*Escrow, error) {
	e, ok := obj.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "cannot index %T", obj)
	}
	return e, nil
}
