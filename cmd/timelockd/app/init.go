package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/token"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// initialBalance is the native currency given to the dev account.
const initialBalance = 123456789

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// The first argument, if given, is the hex address of the account. When
// missing, a new key is generated and its private key printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr timelock.Address
	if len(args) > 0 {
		raw, err := hex.DecodeString(args[0])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "address %q: %s", args[0], err)
		}
		addr = raw
		if err := addr.Validate(); err != nil {
			return nil, err
		}
	} else {
		key := crypto.GenPrivKeyEd25519()
		addr = key.PublicKey().Address()
		// the key is only shown once, it is up to the caller to keep it
		fmt.Printf("generated private key: %X\n", key.Ed25519)
	}

	opts := struct {
		Cash  []cash.GenesisAccount `json:"cash"`
		Token []token.GenesisToken  `json:"token"`
	}{
		Cash:  []cash.GenesisAccount{{Address: addr, Balance: initialBalance}},
		Token: []token.GenesisToken{},
	}
	bz, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "timelock.db")
	}

	stack, err := Stack(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	application, err := Application("timelockd", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}
