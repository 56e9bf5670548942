package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/timelock/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// AppStateKey is the key in the genesis file where the
	// application options are stored
	AppStateKey = "app_state"

	// DirConfig is the subdirectory of home holding the tendermint
	// configuration files
	DirConfig = "config"
	// GenesisFile is the name of the tendermint genesis file
	GenesisFile = "genesis.json"

	flagForce = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// InitCmd will add the app_state to the genesis file created by
// `tendermint init`. It refuses to overwrite existing options unless
// the -f flag is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := filepath.Join(home, DirConfig, GenesisFile)
	logger.Info("Loading genesis", "path", genFile)
	doc, err := loadGenesis(genFile)
	if err != nil {
		return err
	}
	if len(doc[AppStateKey]) > 0 && !force {
		return errors.Wrapf(errors.ErrState, "%s already has %s, use -%s to overwrite", genFile, AppStateKey, flagForce)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return errors.Wrap(err, "cannot generate app state")
	}
	doc[AppStateKey] = options
	if err := saveGenesis(genFile, doc); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

func loadGenesis(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s: run `tendermint init` first", filename)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read %s: %s", filename, err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse %s: %s", filename, err)
	}
	if doc == nil {
		doc = make(GenesisDoc)
	}
	return doc, nil
}

func saveGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrHuman, "write %s: %s", filename, err)
	}
	return nil
}
