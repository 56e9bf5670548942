package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the ABCI code of a successful response.
	SuccessABCICode = 0

	// Errors without a registered code are reported with the internal
	// code and, outside of debug mode, a generic log message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log message that are sent back to the
// tendermint client for given error.
//
// Only registered errors expose their message. Any other error, and any
// recovered panic, is reported as "internal error" unless debug is set. In
// debug mode the log contains the full error including the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode, ErrPanic.Is(err):
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that
// declares one, or the internal code if none does.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	if c, ok := err.(coder); ok {
		return c.ABCICode()
	}
	if c, ok := err.(causer); ok {
		return abciCode(c.Cause())
	}
	return internalABCICode
}

// Redact replaces errors that are not registered, as well as recovered
// panics, with a generic internal error. In debug mode the error is
// returned unchanged.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
