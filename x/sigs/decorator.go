/*
Package sigs authenticates transactions. Every signature is an ed25519
signature over the transaction sign bytes, the chain id and the per key
sequence. Successful verification bumps the sequence, so a signed
transaction can be replayed neither on this chain nor on another one.
*/
package sigs

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// RegisterQuery exposes the per key sequences under "/auth".
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of every SignedTx and stores the proven
// conditions in the context, where Authenticate can find them. Transactions
// that do not implement SignedTx are passed on without any signer.
type Decorator struct {
	allowMissingSigs bool
}

var _ timelock.Decorator = Decorator{}

// NewDecorator requires at least one valid signature per signed transaction.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy that accepts signed transactions without
// any signature.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

func (d Decorator) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) authenticate(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (timelock.Context, error) {
	signed, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	conds, err := VerifyTxSignatures(store, signed, timelock.GetChainID(ctx))
	switch {
	case err != nil:
		return nil, errors.Wrap(err, "cannot verify signatures")
	case len(conds) == 0 && !d.allowMissingSigs:
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, conds), nil
}
