package utils

import (
	"github.com/iov-one/timelock"
)

// writeHandler writes the key/value pair and returns err.
type writeHandler struct {
	key, value []byte
	err        error
}

var _ timelock.Handler = writeHandler{}

func (h writeHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &timelock.CheckResult{}, nil
}

func (h writeHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &timelock.DeliverResult{}, nil
}

type panicHandler struct{}

var _ timelock.Handler = panicHandler{}

func (panicHandler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	panic("deliver panic")
}
