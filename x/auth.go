/*
Package x holds what every extension of the chain shares: the
Authenticator abstraction used by handlers to learn who signed the current
transaction. The extensions themselves live in subpackages.
*/
package x

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Authenticator tells a handler which conditions were proven by the
// transaction in flight. Handlers receive it in their constructor and never
// depend on a concrete signature scheme.
type Authenticator interface {
	// GetConditions lists the proven conditions, main signer first.
	GetConditions(timelock.Context) []timelock.Condition
	// HasAddress reports whether one of the conditions resolves to addr.
	HasAddress(timelock.Context, timelock.Address) bool
}

// MultiAuth merges the view of several authenticators. Conditions are
// reported in the order the authenticators were given.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

func (m MultiAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	var all []timelock.Condition
	for _, a := range m {
		all = append(all, a.GetConditions(ctx)...)
	}
	return all
}

func (m MultiAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all proven conditions.
func GetAddresses(ctx timelock.Context, auth Authenticator) []timelock.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]timelock.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the first proven condition or nil.
func MainSigner(ctx timelock.Context, auth Authenticator) timelock.Condition {
	if conds := auth.GetConditions(ctx); len(conds) != 0 {
		return conds[0]
	}
	return nil
}

// Signer returns the address of the main signer. A transaction without any
// proven condition fails with ErrUnauthorized.
func Signer(ctx timelock.Context, auth Authenticator) (timelock.Address, error) {
	main := MainSigner(ctx, auth)
	if main == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return main.Address(), nil
}
