package timelock

// ReadOnlyKVStore is the read side of every store. A nil key is a
// programming error and may panic.
type ReadOnlyKVStore interface {
	// Get returns nil when key is absent.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil start or
	// end leaves that side of the range open. The range must not be
	// written to while the iterator is open.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks the same range as Iterator, descending.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Callers must
// not modify key or value after the call.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is what handlers receive for every transaction.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies them to its store on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a key range.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//		key, value := it.Key(), it.Value()
//	}
//
// Next, Key and Value panic once Valid returned false. The returned slices
// are owned by the iterator.
type Iterator interface {
	Valid() bool
	Next() error
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can open a savepoint on top of itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a savepoint. Reads see both the parent and the pending
// writes. Write applies the pending writes to the parent, Discard drops
// them. The wrap must not be used after either call. Wraps nest.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root of the application state. Writes
// happen through a CacheWrap and become durable on Commit, which creates a
// new version with its own merkle root.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)
	// LoadLatestVersion opens the newest complete version. After a crash
	// during Commit this may be the previous one.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and root hash.
type CommitID struct {
	Version int64
	Hash    []byte
}
