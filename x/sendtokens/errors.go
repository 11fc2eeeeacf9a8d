package sendtokens

import (
	"github.com/iov-one/disburse/errors"
)

// ErrInsufficientSupply is returned when a distribution requires more tokens
// than the remaining supply.
var ErrInsufficientSupply = errors.Register(1000, "insufficient supply")

// ErrInvalidRecipient is returned when an account identifier is rejected by
// the validator.
var ErrInvalidRecipient = errors.Register(1001, "invalid recipient")
