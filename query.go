package timelock

import (
	"fmt"
	"sort"

	"github.com/gogo/protobuf/proto"
)

// Query modifiers understood by bucket query handlers.
const (
	// KeyQueryMod looks up exactly the given key.
	KeyQueryMod = ""
	// PrefixQueryMod returns every key that starts with the given data.
	PrefixQueryMod = "prefix"
)

// Model is a single key/value entry returned by a query.
type Model struct {
	Key   []byte `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
	Value []byte `protobuf:"bytes,2,opt,name=value,proto3" json:"value,omitempty"`
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// ResultSet is the wire container for query keys and values. A query
// response carries one ResultSet for keys and one for values, index aligned.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// QueryHandler serves read only lookups against the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is implemented by every extension that exposes buckets to
// clients, for example vesting.RegisterQuery.
type QueryRegister func(QueryRouter)

// QueryRouter maps a query path such as "/escrows" to its handler.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register binds h to path. Binding the same path twice is a programming
// error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, dup := r.routes[path]; dup {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths lists all registered query paths in lexical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
