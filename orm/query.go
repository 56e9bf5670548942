package orm

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// bucketQuery looks up models by their primary key. Returned keys are the
// primary keys, without the bucket prefix.
type bucketQuery struct {
	mb *modelBucket
}

var _ timelock.QueryHandler = bucketQuery{}

func (q bucketQuery) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		raw, err := db.Get(q.mb.dbKey(data))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return []timelock.Model{timelock.Pair(data, raw)}, nil
	case timelock.PrefixQueryMod:
		start := q.mb.dbKey(data)
		it, err := db.Iterator(start, prefixEnd(start))
		if err != nil {
			return nil, err
		}
		defer it.Close()

		var res []timelock.Model
		for it.Valid() {
			key := it.Key()[len(q.mb.prefix):]
			res = append(res, timelock.Pair(key, it.Value()))
			if err := it.Next(); err != nil {
				return nil, err
			}
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// indexQuery resolves the references stored in an index into the
// referenced models.
type indexQuery struct {
	mb  *modelBucket
	idx *index
}

var _ timelock.QueryHandler = indexQuery{}

func (q indexQuery) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	refs, err := q.idx.Query(db, mod, data)
	if err != nil {
		return nil, err
	}
	res := make([]timelock.Model, 0, len(refs))
	for _, ref := range refs {
		raw, err := db.Get(q.mb.dbKey(ref.Key))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "index %q points to missing %X", q.idx.name, ref.Key)
		}
		res = append(res, timelock.Pair(ref.Key, raw))
	}
	return res, nil
}
