package store

import (
	"github.com/iov-one/timelock/errors"
)

// SliceIterator iterates over models that were already loaded in memory.
type SliceIterator struct {
	data []Model
	pos  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return s.pos < len(s.data)
}

func (s *SliceIterator) Next() error {
	s.current()
	s.pos++
	return nil
}

func (s *SliceIterator) Key() []byte   { return s.current().Key }
func (s *SliceIterator) Value() []byte { return s.current().Value }

func (s *SliceIterator) Close() {
	s.data = nil
}

// current panics when the iterator is exhausted.
func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("iterator used after its end")
	}
	return s.data[s.pos]
}

// EmptyKVStore holds nothing and silently drops writes. It is the bottom
// layer of MemStore and LogableStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error)  { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)    { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error         { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

type opKind uint8

const (
	setKind opKind = iota + 1
	delKind
)

// Op is a single recorded write.
type Op struct {
	kind  opKind
	key   []byte
	value []byte
}

func SetOp(key, value []byte) Op { return Op{kind: setKind, key: key, value: value} }
func DelOp(key []byte) Op        { return Op{kind: delKind, key: key} }

// Apply replays the write on out.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	}
	return errors.Wrapf(errors.ErrDatabase, "unknown op kind %d", o.kind)
}

func (o Op) IsSetOp() bool { return o.kind == setKind }
func (o Op) Key() []byte   { return o.key }
func (o Op) Value() []byte { return o.value }

// ShowOpser exposes the writes recorded so far, oldest first.
type ShowOpser interface {
	ShowOps() []Op
}

type discarder interface {
	discard()
}

// NonAtomicBatch queues writes and replays them one by one on Write. A
// failure halfway leaves the target partially written, so it is only used
// on top of in-memory layers.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var (
	_ Batch     = (*NonAtomicBatch)(nil)
	_ ShowOpser = (*NonAtomicBatch)(nil)
)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays the queued writes and empties the queue.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.discard()
	return nil
}

func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}

func (b *NonAtomicBatch) discard() {
	b.ops = nil
}

// LogableStore is a MemStore that records every write reaching it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}
