package timelocktest

import (
	"github.com/iov-one/timelock"
)

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg timelock.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ timelock.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (timelock.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Reset()         {}
func (tx *Tx) String() string { return "timelocktest.Tx" }
func (*Tx) ProtoMessage()     {}

// Msg represents a message routed by its path.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by the Validate method.
	Err error
}

var _ timelock.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Reset()         {}
func (m *Msg) String() string { return "timelocktest.Msg" }
func (*Msg) ProtoMessage()    {}
