package app

import (
	"github.com/iov-one/timelock"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...timelock.Initializer) timelock.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []timelock.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts timelock.Options, kv timelock.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
