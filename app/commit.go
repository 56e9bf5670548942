package app

import (
	"sync"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// CommitStore owns the persistent tree and the two scratch pads built on top
// of it: one collecting the writes of DeliverTx for the current block and one
// used by CheckTx to validate mempool transactions.
type CommitStore struct {
	committed timelock.CommitKVStore

	mu      sync.RWMutex
	deliver timelock.KVCacheWrap
	check   timelock.KVCacheWrap
}

// NewCommitStore loads the latest persisted version of store. A store that
// cannot be loaded leaves the node unusable, so this panics.
func NewCommitStore(store timelock.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.resetCaches()
	return cs
}

func (cs *CommitStore) resetCaches() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns version and root hash of the last commit.
func (cs *CommitStore) CommitInfo() (timelock.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered in this block. Pending check state is
// thrown away, since the mempool is rechecked against the new state.
func (cs *CommitStore) Commit() (timelock.CommitID, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.deliver.Write(); err != nil {
		return timelock.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.resetCaches()
	return id, nil
}

func (cs *CommitStore) CheckStore() timelock.CacheableKVStore {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.check
}

func (cs *CommitStore) DeliverStore() timelock.CacheableKVStore {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.deliver
}

// Keys prefixed with _tl: hold application internal data that is not owned
// by any extension.
const chainIDKey = "_tl:chainID"

func mustLoadChainID(kv timelock.ReadOnlyKVStore) string {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID writes the chain id once, during genesis. Any later attempt to
// change it is rejected.
func saveChainID(kv timelock.KVStore, chainID string) error {
	if !timelock.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	key := []byte(chainIDKey)
	switch exists, err := kv.Has(key); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is immutable after genesis")
	}
	return errors.Wrap(kv.Set(key, []byte(chainID)), "save chain id")
}
