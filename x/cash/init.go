package cash

import (
	"github.com/iov-one/timelock"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use timelock.Address, so address in hex, not base64
type GenesisAccount struct {
	Address timelock.Address `json:"address"`
	Balance uint64           `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts timelock.Options, kv timelock.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for _, acct := range accts {
		if err := ctrl.CoinMint(kv, acct.Address, acct.Balance); err != nil {
			return err
		}
	}
	return nil
}
