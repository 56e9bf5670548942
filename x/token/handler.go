package token

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

const (
	createTokenCost int64 = 300
	transferCost    int64 = 100
	approveCost     int64 = 50
)

// RegisterQuery registers the token bucket as "/tokens".
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("tokens", qr)
	newBalanceBucket().Register("token_balances", qr)
}

// RegisterRoutes registers handlers for all token messages.
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&CreateTokenMsg{}, &CreateTokenHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, &TransferHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ApproveMsg{}, &ApproveHandler{auth: auth, ctrl: ctrl})
}

// CreateTokenHandler registers a new token issued by the main signer.
type CreateTokenHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = (*CreateTokenHandler)(nil)

func (h *CreateTokenHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: createTokenCost}, nil
}

// Deliver returns the address of the created token.
func (h *CreateTokenHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, issuer, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.Create(db, issuer, msg.Name, msg.Symbol, msg.InitialSupply)
	if err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Info("token created", "token", addr, "symbol", msg.Symbol, "issuer", issuer)
	return &timelock.DeliverResult{Data: addr}, nil
}

func (h *CreateTokenHandler) validate(ctx timelock.Context, tx timelock.Tx) (*CreateTokenMsg, timelock.Address, error) {
	var msg CreateTokenMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := x.Signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// TransferHandler moves tokens owned by the signer.
type TransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = (*TransferHandler)(nil)

func (h *TransferHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: transferCost}, nil
}

func (h *TransferHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Token, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h *TransferHandler) validate(ctx timelock.Context, tx timelock.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}

// ApproveHandler sets an allowance of the signer.
type ApproveHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = (*ApproveHandler)(nil)

func (h *ApproveHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: approveCost}, nil
}

func (h *ApproveHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Approve(db, msg.Token, msg.Owner, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h *ApproveHandler) validate(ctx timelock.Context, tx timelock.Tx) (*ApproveMsg, error) {
	var msg ApproveMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	return &msg, nil
}
