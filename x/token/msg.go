package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// CreateTokenMsg registers a new token. The signer becomes the issuer and
// receives the whole initial supply.
type CreateTokenMsg struct {
	Metadata      *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Name          string             `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Symbol        string             `protobuf:"bytes,3,opt,name=symbol,proto3" json:"symbol,omitempty"`
	InitialSupply uint64             `protobuf:"varint,4,opt,name=initial_supply,json=initialSupply,proto3" json:"initial_supply,omitempty"`
}

func (m *CreateTokenMsg) Reset()         { *m = CreateTokenMsg{} }
func (m *CreateTokenMsg) String() string { return proto.CompactTextString(m) }
func (*CreateTokenMsg) ProtoMessage()    {}

var _ timelock.Msg = (*CreateTokenMsg)(nil)

func (CreateTokenMsg) Path() string {
	return "token/create"
}

func (m *CreateTokenMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !isTokenName(m.Name) {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrInput, "invalid token name %q", m.Name))
	}
	if !isTokenSymbol(m.Symbol) {
		errs = errors.Append(errs, errors.Field("Symbol", errors.ErrInput, "invalid token symbol %q", m.Symbol))
	}
	return errs
}

// TransferMsg moves tokens owned by the source.
type TransferMsg struct {
	Metadata    *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Token       timelock.Address   `protobuf:"bytes,2,opt,name=token,proto3" json:"token,omitempty"`
	Source      timelock.Address   `protobuf:"bytes,3,opt,name=source,proto3" json:"source,omitempty"`
	Destination timelock.Address   `protobuf:"bytes,4,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64             `protobuf:"varint,5,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *TransferMsg) Reset()         { *m = TransferMsg{} }
func (m *TransferMsg) String() string { return proto.CompactTextString(m) }
func (*TransferMsg) ProtoMessage()    {}

var _ timelock.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return "token/transfer"
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

// ApproveMsg sets the amount the spender can move on behalf of the owner.
// A zero amount revokes the allowance.
type ApproveMsg struct {
	Metadata *timelock.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Token    timelock.Address   `protobuf:"bytes,2,opt,name=token,proto3" json:"token,omitempty"`
	Owner    timelock.Address   `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner,omitempty"`
	Spender  timelock.Address   `protobuf:"bytes,4,opt,name=spender,proto3" json:"spender,omitempty"`
	Amount   uint64             `protobuf:"varint,5,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *ApproveMsg) Reset()         { *m = ApproveMsg{} }
func (m *ApproveMsg) String() string { return proto.CompactTextString(m) }
func (*ApproveMsg) ProtoMessage()    {}

var _ timelock.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return "token/approve"
}

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	return errs
}
