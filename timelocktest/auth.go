/*
Package timelocktest provides the mocks and helpers shared by the
package test suites.
*/
package timelocktest

import (
	"context"
	"fmt"

	"github.com/iov-one/timelock"
)

// Auth authenticates a fixed set of conditions regardless of the context.
// Signer, when set, is reported first and so becomes the main signer.
type Auth struct {
	Signer  timelock.Condition
	Signers []timelock.Condition
}

func (a *Auth) GetConditions(timelock.Context) []timelock.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append([]timelock.Condition{a.Signer}, a.Signers...)
}

func (a *Auth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return containsAddress(a.GetConditions(ctx), addr)
}

// CtxAuth reads the authenticated conditions from the context, under Key.
// Use SetConditions to prepare the context.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx timelock.Context, conds ...timelock.Condition) timelock.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []timelock.Condition:
		return v
	default:
		panic(fmt.Sprintf("context value %q: unexpected %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return containsAddress(a.GetConditions(ctx), addr)
}

func containsAddress(conds []timelock.Condition, addr timelock.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
