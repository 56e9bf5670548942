package vesting

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// The message validation only checks that a message is well formed.
// Amounts and times are checked by the handlers, so that the errors are
// reported in the same order as the state machine checks them.

// CreateMsg creates a new escrow owned by the signer.
type CreateMsg struct {
	Metadata    *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Beneficiary timelock.Address   `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
}

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

var _ timelock.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return "vesting/create"
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Beneficiary.IsZero() {
		errs = errors.Append(errs, errors.Field("Beneficiary", ErrInvalidBeneficiary, "null identity"))
	} else {
		errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	}
	return errs
}

// FundNativeMsg funds the escrow with the native currency. The amount is
// taken from the owner wallet.
type FundNativeMsg struct {
	Metadata   *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowId   []byte             `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
	UnlockTime timelock.UnixTime  `protobuf:"varint,3,opt,name=unlock_time,json=unlockTime,proto3" json:"unlock_time,omitempty"`
	Amount     uint64             `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *FundNativeMsg) Reset()         { *m = FundNativeMsg{} }
func (m *FundNativeMsg) String() string { return proto.CompactTextString(m) }
func (*FundNativeMsg) ProtoMessage()    {}

var _ timelock.Msg = (*FundNativeMsg)(nil)

func (FundNativeMsg) Path() string {
	return "vesting/fund_native"
}

func (m *FundNativeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowId", validateID(m.EscrowId))
	errs = errors.AppendField(errs, "UnlockTime", m.UnlockTime.Validate())
	return errs
}

// FundTokenMsg funds the escrow with a fungible token. The owner must first
// approve the escrow address to spend the amount.
type FundTokenMsg struct {
	Metadata   *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowId   []byte             `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
	UnlockTime timelock.UnixTime  `protobuf:"varint,3,opt,name=unlock_time,json=unlockTime,proto3" json:"unlock_time,omitempty"`
	Token      timelock.Address   `protobuf:"bytes,4,opt,name=token,proto3" json:"token,omitempty"`
	Amount     uint64             `protobuf:"varint,5,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *FundTokenMsg) Reset()         { *m = FundTokenMsg{} }
func (m *FundTokenMsg) String() string { return proto.CompactTextString(m) }
func (*FundTokenMsg) ProtoMessage()    {}

var _ timelock.Msg = (*FundTokenMsg)(nil)

func (FundTokenMsg) Path() string {
	return "vesting/fund_token"
}

func (m *FundTokenMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowId", validateID(m.EscrowId))
	errs = errors.AppendField(errs, "UnlockTime", m.UnlockTime.Validate())
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	return errs
}

// WithdrawNativeMsg releases the native currency to the beneficiary.
type WithdrawNativeMsg struct {
	Metadata *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowId []byte             `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
}

func (m *WithdrawNativeMsg) Reset()         { *m = WithdrawNativeMsg{} }
func (m *WithdrawNativeMsg) String() string { return proto.CompactTextString(m) }
func (*WithdrawNativeMsg) ProtoMessage()    {}

var _ timelock.Msg = (*WithdrawNativeMsg)(nil)

func (WithdrawNativeMsg) Path() string {
	return "vesting/withdraw_native"
}

func (m *WithdrawNativeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowId", validateID(m.EscrowId))
	return errs
}

// WithdrawTokenMsg releases the fungible token to the beneficiary.
type WithdrawTokenMsg struct {
	Metadata *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowId []byte             `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
}

func (m *WithdrawTokenMsg) Reset()         { *m = WithdrawTokenMsg{} }
func (m *WithdrawTokenMsg) String() string { return proto.CompactTextString(m) }
func (*WithdrawTokenMsg) ProtoMessage()    {}

var _ timelock.Msg = (*WithdrawTokenMsg)(nil)

func (WithdrawTokenMsg) Path() string {
	return "vesting/withdraw_token"
}

func (m *WithdrawTokenMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowId", validateID(m.EscrowId))
	return errs
}

// validateID checks the escrow ID is a sequence value.
func validateID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "escrow id")
	}
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "escrow id must be 8 bytes, got %d", len(id))
	}
	return nil
}
