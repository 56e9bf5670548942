package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, close := makeCommitStore()
	return commit.Adapter(), close
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	close := func() { os.RemoveAll(tmpDir) }
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		close()
		panic(err)
	}
	return commit, close
}

func TestAdapterGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestAdapterNesting(t *testing.T) {
	store.NewTestSuite(makeBase).Nesting(t)
}

func TestAdapterIteration(t *testing.T) {
	store.NewTestSuite(makeBase).Iteration(t)
}

func TestCommitAndReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-commit-")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "state")
	assert.Nil(t, err)
	assert.Nil(t, commit.LoadLatestVersion())

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("escrow"), []byte("funded")))

	// nothing visible before the cache is written
	got, err := commit.Get([]byte("escrow"))
	assert.Nil(t, err)
	assert.Nil(t, got)

	assert.Nil(t, cache.Write())
	first, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), first.Version)
	if len(first.Hash) == 0 {
		t.Fatal("commit must produce a root hash")
	}

	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("escrow"), []byte("withdrawn")))
	assert.Nil(t, cache.Write())
	second, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Version)

	// equal content must produce equal versions and hashes
	a, b := MockCommitStore(), MockCommitStore()
	for _, cs := range []CommitStore{a, b} {
		c := cs.CacheWrap()
		assert.Nil(t, c.Set([]byte("k"), []byte("v")))
		assert.Nil(t, c.Write())
	}
	ida, err := a.Commit()
	assert.Nil(t, err)
	idb, err := b.Commit()
	assert.Nil(t, err)
	assert.Equal(t, ida, idb)
}
