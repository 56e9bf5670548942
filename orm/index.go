package orm

import (
	"bytes"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given model.
// Returning a nil key means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// index represents a secondary index on some data. Every indexed value is
// stored under a single key, holding the sorted set of primary keys
// referencing it.
type index struct {
	name    string
	id      []byte
	unique  bool
	indexer Indexer
}

var _ timelock.QueryHandler = (*index)(nil)

func newIndex(bucket, name string, indexer Indexer, unique bool) *index {
	return &index{
		name:    name,
		id:      []byte(indexPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
		unique:  unique,
	}
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i *index) indexKey(value []byte) []byte {
	out := make([]byte, len(i.id)+len(value))
	copy(out, i.id)
	copy(out[len(i.id):], value)
	return out
}

// Update moves the reference to the model stored under primary key into
// the right location.
//
// prev == nil means insert
// next == nil means delete
func (i *index) Update(db timelock.KVStore, key []byte, prev, next Model) error {
	var prevVal, nextVal []byte
	if prev != nil {
		v, err := i.indexer(prev)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		prevVal = v
	}
	if next != nil {
		v, err := i.indexer(next)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		nextVal = v
	}

	if prev != nil && next != nil && bytes.Equal(prevVal, nextVal) {
		return nil
	}
	if prevVal != nil {
		if err := i.remove(db, prevVal, key); err != nil {
			return err
		}
	}
	if nextVal != nil {
		if err := i.add(db, nextVal, key); err != nil {
			return err
		}
	}
	return nil
}

func (i *index) add(db timelock.KVStore, value, ref []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %q: %X", i.name, value)
	}
	if err := refs.Add(ref); err != nil {
		return err
	}
	return i.save(db, value, refs)
}

func (i *index) remove(db timelock.KVStore, value, ref []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if err := refs.Remove(ref); err != nil {
		return errors.Wrapf(err, "index %q", i.name)
	}
	if len(refs.Refs) == 0 {
		return db.Delete(i.indexKey(value))
	}
	return i.save(db, value, refs)
}

func (i *index) load(db timelock.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, err
	}
	var refs MultiRef
	if raw != nil {
		if err := timelock.Unmarshal(raw, &refs); err != nil {
			return nil, errors.Wrapf(err, "index %q", i.name)
		}
	}
	return &refs, nil
}

func (i *index) save(db timelock.KVStore, value []byte, refs *MultiRef) error {
	raw, err := timelock.Marshal(refs)
	if err != nil {
		return err
	}
	return db.Set(i.indexKey(value), raw)
}

// Keys returns the primary keys of all models indexed under given value,
// in ascending order.
func (i *index) Keys(db timelock.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.load(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query returns the primary keys referenced by the value (KeyQueryMod) or
// by all values starting with the prefix (PrefixQueryMod). The owning
// bucket translates those into models.
func (i *index) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		refs, err := i.Keys(db, data)
		if err != nil {
			return nil, err
		}
		res := make([]timelock.Model, len(refs))
		for n, ref := range refs {
			res[n] = timelock.Pair(ref, nil)
		}
		return res, nil
	case timelock.PrefixQueryMod:
		start := i.indexKey(data)
		it, err := db.Iterator(start, prefixEnd(start))
		if err != nil {
			return nil, err
		}
		defer it.Close()

		var res []timelock.Model
		for it.Valid() {
			var refs MultiRef
			if err := timelock.Unmarshal(it.Value(), &refs); err != nil {
				return nil, errors.Wrapf(err, "index %q", i.name)
			}
			for _, ref := range refs.Refs {
				res = append(res, timelock.Pair(ref, nil))
			}
			if err := it.Next(); err != nil {
				return nil, err
			}
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// prefixEnd returns the first key that does not start with given prefix.
// A nil result means no upper bound.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
