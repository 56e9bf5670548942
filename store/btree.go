/*
Package store provides the key value store implementations every handler
writes through: an in-memory btree cache wrap, which can be layered on any
store to create savepoints, and the helpers to build and inspect them.
A persistent, merkle-ized store lives in the iavl subpackage.
*/
package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/timelock/errors"
)

// btreeDegree of the tree backing a single cache wrap.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a CacheWrap backed by an in-memory btree.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty, purely in-memory store. Used by tests.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap records writes in a btree and in a batch. Reads are served
// from the btree first and fall through to the backing store. Write replays
// the batch on the parent, Discard forgets everything.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap wraps kv. All writes go to batch, kv is only read. A nil
// free list allocates a new one, nested wraps pass the parent's list down.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks a savepoint on top of this wrap.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

func (b BTreeCacheWrap) Discard() {
	// Return all nodes to the shared free list.
	for b.bt.DeleteMin() != nil {
	}
	if d, ok := b.batch.(discarder); ok {
		d.discard()
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

// lookup inspects only the local btree. cached is false when the key was not
// touched in this wrap and the backing store must be asked.
func (b BTreeCacheWrap) lookup(key []byte) (value []byte, exists, cached bool, err error) {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return nil, false, false, nil
	case setItem:
		return it.value, true, true, nil
	case deletedItem:
		return nil, false, true, nil
	default:
		return nil, false, true, errors.Wrapf(errors.ErrDatabase, "unexpected btree item %T", it)
	}
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	val, _, cached, err := b.lookup(key)
	if !cached {
		return b.back.Get(key)
	}
	return val, err
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	_, exists, cached, err := b.lookup(key)
	if !cached {
		return b.back.Has(key)
	}
	return exists, err
}

// Iterator merges the local writes with the backing store, ascending.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(ascendBtree(b.bt, start, end), parent, true)
}

// ReverseIterator is Iterator in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(descendBtree(b.bt, start, end), parent, false)
}

// keyer is implemented by every item stored in the btree.
type keyer interface {
	Key() []byte
}

// bkey orders btree items by their raw key bytes. On its own it is used as a
// search pivot.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte { return k.key }

func (k bkey) Less(other btree.Item) bool {
	return bytes.Compare(k.key, other.(keyer).Key()) < 0
}

// deletedItem is a tombstone hiding the key in the backing store.
type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
