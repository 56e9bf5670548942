package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
)

// StdTx is a minimal signed transaction used in the tests.
type StdTx struct {
	Payload    []byte          `protobuf:"bytes,1,opt,name=payload,proto3" json:"payload,omitempty"`
	Signatures []*StdSignature `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *StdTx) Reset()         { *m = StdTx{} }
func (m *StdTx) String() string { return proto.CompactTextString(m) }
func (*StdTx) ProtoMessage()    {}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Payload: payload}
}

func (tx *StdTx) GetMsg() (timelock.Msg, error) {
	return nil, nil
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	cpy := StdTx{Payload: tx.Payload}
	return timelock.Marshal(&cpy)
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []timelock.Condition
}

var _ timelock.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &timelock.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &timelock.DeliverResult{}, nil
}
