package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related part of abci.Application: genesis,
// queries, block boundaries and commits. BaseApp embeds it and adds
// transaction processing.
//
// Failures in ABCI calls that carry no user input (Info, InitChain, Commit)
// leave the node in an unknown state and panic.
type StoreApp struct {
	logger log.Logger
	// name is reported by Info.
	name  string
	store *CommitStore

	initializer timelock.Initializer
	queryRouter timelock.QueryRouter

	// chainID is empty until genesis was processed.
	chainID string

	// baseContext lives as long as the application. blockContext is
	// derived from it on every BeginBlock.
	baseContext  timelock.Context
	blockContext timelock.Context

	debug bool
}

// NewStoreApp opens store and restores the chain id and height of the last
// commit. It panics if the store cannot be read.
func NewStoreApp(name string, store timelock.CommitKVStore,
	queryRouter timelock.QueryRouter, baseContext timelock.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.baseContext = timelock.WithChainID(s.baseContext, s.chainID)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = timelock.WithHeight(s.baseContext, info.Version)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis loader used by InitChain.
func (s *StoreApp) WithInit(init timelock.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug exposes full error details, stack traces included, to clients.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger replaces the application logger, also for handlers.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = timelock.WithLogger(s.baseContext, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext is the context of the block being processed.
func (s *StoreApp) BlockContext() timelock.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() timelock.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() timelock.CacheableKVStore {
	return s.store.CheckStore()
}

// parseAppState loads the genesis app_state. This happens once in the life
// of a chain, restarts skip it.
func (s *StoreApp) parseAppState(data []byte, chainID string, init timelock.Initializer) error {
	switch {
	case s.chainID != "":
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	case len(data) == 0:
		return errors.Wrap(errors.ErrEmpty, "genesis.json has no app_state, run init first")
	}
	var opts timelock.Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}
	if err := s.storeChainID(chainID); err != nil {
		return errors.Wrap(err, "cannot save chain id")
	}
	if init == nil {
		return nil
	}
	return errors.Wrap(init.FromGenesis(opts, s.DeliverStore()), "cannot initialize from genesis")
}

func (s *StoreApp) storeChainID(chainID string) error {
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = timelock.WithChainID(s.baseContext, chainID)
	return nil
}

// Info reports the last committed height and app hash, which tendermint
// uses to replay missing blocks on start.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query reads the last committed state. The path selects a bucket or one
// of its indexes, for example "/escrows" or "/escrows/owner", and may end
// with "?prefix" to turn Data into a key prefix.
//
// Key and Value of the response are ResultSets of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	handler := s.queryRouter.Handler(path)
	if handler == nil {
		return timelock.QueryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", req.Path), s.debug)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return timelock.QueryError(err, s.debug)
	}

	db := s.store.committed.CacheWrap()
	defer db.Discard()
	models, err := handler.Query(db, mod, req.Data)
	if err != nil {
		return timelock.QueryError(err, s.debug)
	}

	keys, err := timelock.Marshal(ResultsFromKeys(models))
	if err != nil {
		return timelock.QueryError(err, s.debug)
	}
	values, err := timelock.Marshal(ResultsFromValues(models))
	if err != nil {
		return timelock.QueryError(err, s.debug)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

// splitPath separates the query modifier following "?" from the path.
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock exposes the height and time of the block header to handlers.
// Unlock times are compared against this block time.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := timelock.WithHeight(s.baseContext, req.Header.GetHeight())
	s.blockContext = timelock.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
