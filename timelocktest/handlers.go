package timelocktest

import "github.com/iov-one/timelock"

// calls counts how often the check and deliver paths of a mock were used.
type calls struct {
	check   int
	deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// Handler returns preconfigured results. A non nil error field takes
// precedence over the result.
type Handler struct {
	calls

	CheckResult timelock.CheckResult
	CheckErr    error

	DeliverResult timelock.DeliverResult
	DeliverErr    error
}

var _ timelock.Handler = (*Handler)(nil)

func (h *Handler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	h.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	h.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// Decorator passes every call to the next handler unless the matching error
// field is set, in which case that error is returned without calling next.
type Decorator struct {
	calls

	CheckErr   error
	DeliverErr error
}

var _ timelock.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns a handler that runs d around h.
func Decorate(h timelock.Handler, d timelock.Decorator) timelock.Handler {
	return decorated{h: h, d: d}
}

type decorated struct {
	h timelock.Handler
	d timelock.Decorator
}

func (x decorated) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return x.d.Check(ctx, db, tx, x.h)
}

func (x decorated) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return x.d.Deliver(ctx, db, tx, x.h)
}
