package store

import (
	"testing"

	"github.com/iov-one/timelock/timelocktest/assert"
)

// TestSuite provides many methods that can be called in package-specific
// test code. The constructor customizes the store being tested, the rest of
// the logic is generic to the CacheableKVStore interface.
//
// It is shared by btree_test.go and iavl/adapter_test.go.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh, empty store and a function to
// release its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores produced by the
// given constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on the store and a cache wrap layered on
// top of it.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// a discarded cache leaves no trace
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Set(k3, v3))
	assert.Nil(t, c2.Delete(k))
	s.AssertGetHas(t, c2, k, nil, false)
	c2.Discard()
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k3, nil, false)
}

// Nesting ensures that cache wraps can be stacked and only a write of every
// layer reaches the base store.
func (s *TestSuite) Nesting(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	outer := base.CacheWrap()
	inner := outer.CacheWrap()

	k, v := []byte("nested"), []byte("value")
	assert.Nil(t, inner.Set(k, v))
	s.AssertGetHas(t, outer, k, nil, false)

	assert.Nil(t, inner.Write())
	s.AssertGetHas(t, outer, k, v, true)
	s.AssertGetHas(t, base, k, nil, false)

	assert.Nil(t, outer.Write())
	s.AssertGetHas(t, base, k, v, true)

	// an inner delete hides the value once written
	outer = base.CacheWrap()
	inner = outer.CacheWrap()
	assert.Nil(t, inner.Delete(k))
	assert.Nil(t, inner.Write())
	s.AssertGetHas(t, outer, k, nil, false)
	s.AssertGetHas(t, base, k, v, true)
	outer.Discard()
	s.AssertGetHas(t, base, k, v, true)
}

// Iteration checks that a cache wrap merges its own writes and deletes
// with the content of the parent store, in both directions.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, m := range []Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("c"), Value: []byte("3")},
		{Key: []byte("e"), Value: []byte("5")},
		{Key: []byte("g"), Value: []byte("7")},
	} {
		assert.Nil(t, base.Set(m.Key, m.Value))
	}

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("2")))
	assert.Nil(t, cache.Set([]byte("c"), []byte("33")))
	assert.Nil(t, cache.Delete([]byte("e")))
	assert.Nil(t, cache.Set([]byte("h"), []byte("8")))

	all := []Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("c"), Value: []byte("33")},
		{Key: []byte("g"), Value: []byte("7")},
		{Key: []byte("h"), Value: []byte("8")},
	}

	it, err := cache.Iterator(nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, all, consume(t, it))

	it, err = cache.ReverseIterator(nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, reversed(all), consume(t, it))

	it, err = cache.Iterator([]byte("b"), []byte("h"))
	assert.Nil(t, err)
	assert.Equal(t, all[1:4], consume(t, it))

	it, err = cache.ReverseIterator([]byte("b"), []byte("h"))
	assert.Nil(t, err)
	assert.Equal(t, reversed(all[1:4]), consume(t, it))

	it, err = cache.Iterator([]byte("x"), nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(consume(t, it)))
}

// AssertGetHas makes sure that this key returns
// the given value or nil, and has is true iff
// value is non-nil
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()

	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func consume(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Close()

	var res []Model
	for it.Valid() {
		res = append(res, Model{Key: it.Key(), Value: it.Value()})
		assert.Nil(t, it.Next())
	}
	return res
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
