package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all cached items (writes and deletes) within
// [start, end) in ascending order. A nil bound means unbounded.
func ascendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendBtree returns the same items as ascendBtree, in reverse order.
func descendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// cacheIterator merges the content of a cache layer with the iterator of
// the store below it. Cached writes shadow the parent values and cached
// deletes hide them.
type cacheIterator struct {
	ours      []btree.Item
	parent    Iterator
	ascending bool

	valid bool
	key   []byte
	value []byte
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(ours []btree.Item, parent Iterator, ascending bool) (*cacheIterator, error) {
	it := &cacheIterator{
		ours:      ours,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.advance(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

// Valid implements Iterator and returns true iff it can be read
func (c *cacheIterator) Valid() bool {
	return c.valid
}

// Next moves the iterator to the next sequential key in the database.
// Panics if the iterator is not valid.
func (c *cacheIterator) Next() error {
	c.assertValid()
	return c.advance()
}

// Key returns the key of the cursor.
func (c *cacheIterator) Key() []byte {
	c.assertValid()
	return c.key
}

// Value returns the value of the cursor.
func (c *cacheIterator) Value() []byte {
	c.assertValid()
	return c.value
}

// Close releases the Iterator.
func (c *cacheIterator) Close() {
	c.parent.Close()
	c.ours = nil
	c.valid = false
}

func (c *cacheIterator) assertValid() {
	if !c.valid {
		panic("read after end of iterator")
	}
}

// advance loads the next visible key value pair into the cursor.
func (c *cacheIterator) advance() error {
	for {
		hasOurs := len(c.ours) > 0
		hasParent := c.parent.Valid()

		if !hasOurs && !hasParent {
			c.valid = false
			c.key, c.value = nil, nil
			return nil
		}

		// cmp < 0 means our item comes first, cmp > 0 the parent's one.
		cmp := -1
		switch {
		case !hasOurs:
			cmp = 1
		case hasParent:
			cmp = bytes.Compare(c.ours[0].(keyer).Key(), c.parent.Key())
			if !c.ascending {
				cmp = -cmp
			}
		}

		if cmp > 0 {
			c.valid = true
			c.key = copyBytes(c.parent.Key())
			c.value = copyBytes(c.parent.Value())
			return c.parent.Next()
		}

		if cmp == 0 {
			// our value shadows the parent one
			if err := c.parent.Next(); err != nil {
				return err
			}
		}

		item := c.ours[0]
		c.ours = c.ours[1:]
		if set, ok := item.(setItem); ok {
			c.valid = true
			c.key = set.key
			c.value = set.value
			return nil
		}
		// deleted item, hide it and look further
	}
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cpy := make([]byte, len(b))
	copy(cpy, b)
	return cpy
}
