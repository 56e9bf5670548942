package token

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const optKey = "token"

// GenesisToken describes a token created at chain start. The supply is
// minted to the issuer.
type GenesisToken struct {
	Name   string           `json:"name"`
	Symbol string           `json:"symbol"`
	Issuer timelock.Address `json:"issuer"`
	Supply uint64           `json:"supply"`
}

// Initializer creates the genesis tokens in the order they are listed. The
// n-th token gets the sequence ID n.
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

func (Initializer) FromGenesis(opts timelock.Options, db timelock.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions(optKey, &tokens); err != nil {
		return err
	}
	ctrl := NewController()
	for i, t := range tokens {
		if _, err := ctrl.Create(db, t.Issuer, t.Name, t.Symbol, t.Supply); err != nil {
			return errors.Wrapf(err, "token #%d", i)
		}
	}
	return nil
}
