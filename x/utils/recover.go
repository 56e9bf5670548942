package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Recovery turns a panic raised down the stack into an ErrPanic error, so
// that a broken handler fails a single transaction instead of the node.
// The recovered panic is logged at error level.
type Recovery struct{}

var _ timelock.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (_ *timelock.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (_ *timelock.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

// logPanic must be deferred before errors.Recover, so that it runs after
// the panic was converted.
func logPanic(ctx timelock.Context, err *error) {
	if *err != nil && errors.ErrPanic.Is(*err) {
		timelock.GetLogger(ctx).Error("panic recovered", "err", *err)
	}
}

