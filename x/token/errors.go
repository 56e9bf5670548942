package token

import (
	"github.com/iov-one/timelock/errors"
)

// Token reserves 1100~1109 error codes

// ErrAllowance is returned when a spender wants to move more than it was
// approved for.
var ErrAllowance = errors.Register(1100, "insufficient allowance")
