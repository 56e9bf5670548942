package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// RegisterRoutes binds SendMsg to its handler.
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery exposes the wallets under "/wallets".
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler transfers native coins between two wallets. Only the owner
// of the source wallet may sign it.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ timelock.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Debug("coins sent",
		"from", msg.Source, "to", msg.Destination, "amount", msg.Amount)
	return &timelock.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx timelock.Context, tx timelock.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source wallet owner did not sign")
	}
	return &msg, nil
}
