package timelock

import (
	"encoding/json"

	"github.com/iov-one/timelock/errors"
)

// Handler processes one kind of message, for example funding an escrow.
// Check validates a transaction for the mempool, Deliver executes it.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator is middleware shared by all handlers, such as signature
// verification or panic recovery. It decides whether and how next is
// called.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to the path of the message they process.
// Registering a path twice panics.
type Registry interface {
	Handle(Msg, Handler)
}

// LoadMsg copies the message of tx into destination, which must be a
// pointer to the expected message type, and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	if err := setMsg(destination, msg); err != nil {
		return err
	}
	return errors.Wrap(msg.Validate(), "invalid message")
}

// Options is the app_state of the genesis file, one entry per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the entry stored under key into obj. A missing entry
// leaves obj untouched and is not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
