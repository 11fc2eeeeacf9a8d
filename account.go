package disburse

import (
	"regexp"

	"github.com/iov-one/disburse/errors"
)

const (
	// MinAccountIDLength is the shortest account identifier accepted.
	MinAccountIDLength = 2
	// MaxAccountIDLength is the longest account identifier accepted.
	MaxAccountIDLength = 64
)

// isAccountID matches dot separated parts, each built from lowercase
// alphanumeric runs joined by a single dash or underscore.
var isAccountID = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`).MatchString

// AccountID is an opaque string naming an account, for example
// "alice.near". Use Validate before trusting a value that comes from outside.
type AccountID string

// IsValidAccountID returns true if given string is a well formed account
// identifier.
func IsValidAccountID(s string) bool {
	if len(s) < MinAccountIDLength || len(s) > MaxAccountIDLength {
		return false
	}
	return isAccountID(s)
}

// Validate returns an error if the account identifier is not well formed.
func (a AccountID) Validate() error {
	if !IsValidAccountID(string(a)) {
		return errors.Wrapf(errors.ErrInput, "account %q", string(a))
	}
	return nil
}

// String returns the identifier as is.
func (a AccountID) String() string {
	return string(a)
}

// Equals checks if two account identifiers are the same.
func (a AccountID) Equals(b AccountID) bool {
	return a == b
}
