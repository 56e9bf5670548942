package app

import (
	"reflect"

	"github.com/iov-one/timelock"
)

// Decorators is an ordered middleware stack waiting for its final handler.
// The first decorator added is the outermost one. Values are immutable,
// Chain always returns a new stack.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
type Decorators struct {
	chain []timelock.Decorator
}

// ChainDecorators starts a stack. Nil decorators are skipped, which lets
// callers enable a middleware conditionally.
func ChainDecorators(ds ...timelock.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain appends ds below the decorators already in the stack.
func (d Decorators) Chain(ds ...timelock.Decorator) Decorators {
	next := make([]timelock.Decorator, 0, len(d.chain)+len(ds))
	next = append(next, d.chain...)
	next = append(next, cutoffNil(ds)...)
	return Decorators{chain: next}
}

// cutoffNil drops nil interfaces and typed nil pointers.
func cutoffNil(ds []timelock.Decorator) []timelock.Decorator {
	var out []timelock.Decorator
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		out = append(out, d)
	}
	return out
}

// WithHandler closes the stack over h.
func (d Decorators) WithHandler(h timelock.Handler) timelock.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step binds one decorator to the handler below it.
type step struct {
	d    timelock.Decorator
	next timelock.Handler
}

var _ timelock.Handler = step{}

func (s step) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
