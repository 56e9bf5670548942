package timelock

// Msg is a request for a single state transition, such as funding an
// escrow. It carries no authentication, that lives in the wrapping Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It must match
	// [0-9A-Za-z_/]+ and is usually "<extension>/<action>", for example
	// "vesting/withdraw_native".
	Path() string

	// Validate checks that the message is well formed. It does not look
	// at the state, that is up to the handler.
	Validate() error
}

// Tx is what a client sends to the chain: exactly one message plus
// whatever the decorators need to authenticate the sender.
//
// The application defines the concrete type.
type Tx interface {
	Persistent

	// GetMsg returns the message carried by this transaction.
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)
