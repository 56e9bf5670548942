package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/token"
	"github.com/iov-one/timelock/x/vesting"
)

// Tx is the transaction type accepted by timelockd. It carries the
// signatures and exactly one of the message fields.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	CashSendMsg              *cash.SendMsg              `protobuf:"bytes,51,opt,name=cash_send_msg,json=cashSendMsg,proto3" json:"cash_send_msg,omitempty"`
	TokenCreateMsg           *token.CreateTokenMsg      `protobuf:"bytes,61,opt,name=token_create_msg,json=tokenCreateMsg,proto3" json:"token_create_msg,omitempty"`
	TokenTransferMsg         *token.TransferMsg         `protobuf:"bytes,62,opt,name=token_transfer_msg,json=tokenTransferMsg,proto3" json:"token_transfer_msg,omitempty"`
	TokenApproveMsg          *token.ApproveMsg          `protobuf:"bytes,63,opt,name=token_approve_msg,json=tokenApproveMsg,proto3" json:"token_approve_msg,omitempty"`
	VestingCreateMsg         *vesting.CreateMsg         `protobuf:"bytes,71,opt,name=vesting_create_msg,json=vestingCreateMsg,proto3" json:"vesting_create_msg,omitempty"`
	VestingFundNativeMsg     *vesting.FundNativeMsg     `protobuf:"bytes,72,opt,name=vesting_fund_native_msg,json=vestingFundNativeMsg,proto3" json:"vesting_fund_native_msg,omitempty"`
	VestingFundTokenMsg      *vesting.FundTokenMsg      `protobuf:"bytes,73,opt,name=vesting_fund_token_msg,json=vestingFundTokenMsg,proto3" json:"vesting_fund_token_msg,omitempty"`
	VestingWithdrawNativeMsg *vesting.WithdrawNativeMsg `protobuf:"bytes,74,opt,name=vesting_withdraw_native_msg,json=vestingWithdrawNativeMsg,proto3" json:"vesting_withdraw_native_msg,omitempty"`
	VestingWithdrawTokenMsg  *vesting.WithdrawTokenMsg  `protobuf:"bytes,75,opt,name=vesting_withdraw_token_msg,json=vestingWithdrawTokenMsg,proto3" json:"vesting_withdraw_token_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

var _ timelock.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (timelock.Tx, error) {
	tx := new(Tx)
	if err := timelock.Unmarshal(bz, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message set on this transaction.
func (tx *Tx) GetMsg() (timelock.Msg, error) {
	var (
		msg timelock.Msg
		n   int
	)
	// typed nil pointers must not end up in msg
	pick := func(set bool, m timelock.Msg) {
		if set {
			msg = m
			n++
		}
	}
	pick(tx.CashSendMsg != nil, tx.CashSendMsg)
	pick(tx.TokenCreateMsg != nil, tx.TokenCreateMsg)
	pick(tx.TokenTransferMsg != nil, tx.TokenTransferMsg)
	pick(tx.TokenApproveMsg != nil, tx.TokenApproveMsg)
	pick(tx.VestingCreateMsg != nil, tx.VestingCreateMsg)
	pick(tx.VestingFundNativeMsg != nil, tx.VestingFundNativeMsg)
	pick(tx.VestingFundTokenMsg != nil, tx.VestingFundTokenMsg)
	pick(tx.VestingWithdrawNativeMsg != nil, tx.VestingWithdrawNativeMsg)
	pick(tx.VestingWithdrawTokenMsg != nil, tx.VestingWithdrawTokenMsg)

	switch n {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "no message set")
	case 1:
		return msg, nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%d messages set, expected one", n)
	}
}

// GetSignatures returns the signatures on the Tx
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign: the transaction without any
// signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cpy := *tx
	cpy.Signatures = nil
	return timelock.Marshal(&cpy)
}

// SetMsg places the message in the matching field of the transaction,
// clearing any message that was set before.
func (tx *Tx) SetMsg(msg timelock.Msg) error {
	*tx = Tx{Signatures: tx.Signatures}
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.CashSendMsg = m
	case *token.CreateTokenMsg:
		tx.TokenCreateMsg = m
	case *token.TransferMsg:
		tx.TokenTransferMsg = m
	case *token.ApproveMsg:
		tx.TokenApproveMsg = m
	case *vesting.CreateMsg:
		tx.VestingCreateMsg = m
	case *vesting.FundNativeMsg:
		tx.VestingFundNativeMsg = m
	case *vesting.FundTokenMsg:
		tx.VestingFundTokenMsg = m
	case *vesting.WithdrawNativeMsg:
		tx.VestingWithdrawNativeMsg = m
	case *vesting.WithdrawTokenMsg:
		tx.VestingWithdrawTokenMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}
