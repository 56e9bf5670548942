package vesting

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// NativeMover moves the native currency between addresses.
// cash.Controller implements it.
type NativeMover interface {
	Balance(db timelock.ReadOnlyKVStore, addr timelock.Address) (uint64, error)
	MoveCoins(db timelock.KVStore, src, dest timelock.Address, amount uint64) error
}

// FungibleLedger is the fungible token capability an escrow needs.
// token.Controller implements it.
type FungibleLedger interface {
	BalanceOf(db timelock.ReadOnlyKVStore, token, holder timelock.Address) (uint64, error)
	Allowance(db timelock.ReadOnlyKVStore, token, owner, spender timelock.Address) (uint64, error)
	Transfer(db timelock.KVStore, token, from, to timelock.Address, amount uint64) error
	TransferFrom(db timelock.KVStore, token, spender, from, to timelock.Address, amount uint64) error
}

// atomic executes fn on a cache wrap of the store. Changes are written
// back only if fn succeeds.
func atomic(db timelock.KVStore, fn func(timelock.KVStore) error) error {
	cacheable, ok := db.(timelock.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "store %T cannot be cache wrapped", db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// transferFailed reports a failed asset movement.
func transferFailed(err error) error {
	return errors.Wrapf(ErrTransferFailed, "%s", err)
}
