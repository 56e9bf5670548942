package vesting

import (
	"github.com/iov-one/timelock/errors"
)

// Vesting reserves 1200~1219 error codes

var (
	ErrInvalidBeneficiary    = errors.Register(1200, "invalid beneficiary")
	ErrNotOwner              = errors.Register(1201, "not the escrow owner")
	ErrNotBeneficiary        = errors.Register(1202, "not the escrow beneficiary")
	ErrAlreadyFunded         = errors.Register(1203, "escrow already funded")
	ErrUnlockNotInFuture     = errors.Register(1204, "unlock time not in the future")
	ErrZeroAmount            = errors.Register(1205, "zero amount")
	ErrInsufficientFunds     = errors.Register(1206, "insufficient funds")
	ErrInsufficientAllowance = errors.Register(1207, "insufficient allowance")
	ErrTooEarly              = errors.Register(1208, "escrow still locked")
	ErrAssetKindMismatch     = errors.Register(1209, "asset kind mismatch")
	ErrTransferFailed        = errors.Register(1210, "transfer failed")
	ErrNotFunded             = errors.Register(1211, "escrow not funded")
	ErrAlreadyWithdrawn      = errors.Register(1212, "escrow already withdrawn")
)
