package sigs

import (
	"github.com/iov-one/timelock/errors"
)

// x/sigs reserves 20 ~ 29.
var (
	// ErrInvalidSequence is returned when a signature sequence does not
	// match the one stored for the signer.
	ErrInvalidSequence = errors.Register(20, "invalid sequence number")
)
