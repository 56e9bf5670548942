package orm

import (
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/errors"
)

// Counter is a simple model used across the bucket tests.
type Counter struct {
	Owner []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Count int64  `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func counterOwner(m Model) ([]byte, error) {
	c, ok := m.(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return c.Owner, nil
}

func counterValue(m Model) ([]byte, error) {
	c, ok := m.(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return []byte(strconv.FormatInt(c.Count, 10)), nil
}

// Other is a model that cannot be stored in a counter bucket.
type Other struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *Other) Reset()         { *m = Other{} }
func (m *Other) String() string { return proto.CompactTextString(m) }
func (*Other) ProtoMessage()    {}
func (*Other) Validate() error  { return nil }
