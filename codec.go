package timelock

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/errors"
)

// Persistent is implemented by every entity that can be written to the
// store or sent over the wire. Serialization is protobuf, driven by the
// struct tags of the implementation.
type Persistent interface {
	proto.Message
}

// Marshal serializes given entity.
func Marshal(p Persistent) ([]byte, error) {
	bz, err := proto.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// MustMarshal is like Marshal, but panics instead of returning an error.
// Only use when you control the entity being passed in.
func MustMarshal(p Persistent) []byte {
	bz, err := Marshal(p)
	if err != nil {
		panic(err)
	}
	return bz
}

// Unmarshal loads the serialized form into given entity. The entity is
// reset first, so no state from a previous load can leak through.
func Unmarshal(bz []byte, p Persistent) error {
	if err := proto.Unmarshal(bz, p); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// ObjAddress takes the address of an object
func ObjAddress(obj Persistent) (Address, error) {
	bz, err := Marshal(obj)
	if err != nil {
		return nil, err
	}
	return NewAddress(bz), nil
}

// Metadata is embedded in every stored entity and message. The schema
// version allows the data layout to evolve.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

func (m *Metadata) Reset()         { *m = Metadata{} }
func (m *Metadata) String() string { return proto.CompactTextString(m) }
func (*Metadata) ProtoMessage()    {}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "invalid schema version")
	}
	return nil
}

// Copy returns a deep copy of this metadata.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	return &Metadata{Schema: m.Schema}
}
