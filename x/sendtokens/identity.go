package sendtokens

import (
	"github.com/iov-one/disburse"
)

// Identity provides the account invoking an operation and the account the
// ledger is deployed under. It is asked on every mutating call and its
// answers must not be cached.
type Identity interface {
	Caller(disburse.Context) disburse.AccountID
	Owner(disburse.Context) disburse.AccountID
}

// ContextIdentity reads both the caller and the owner from the context. The
// host sets the owner once from the deployment configuration and the caller
// for every transaction.
type ContextIdentity struct{}

var _ Identity = ContextIdentity{}

// Caller returns the account set with disburse.WithCaller, or an empty
// identifier if none was set.
func (ContextIdentity) Caller(ctx disburse.Context) disburse.AccountID {
	caller, _ := disburse.GetCaller(ctx)
	return caller
}

// Owner returns the account set with disburse.WithOwner, or an empty
// identifier if none was set.
func (ContextIdentity) Owner(ctx disburse.Context) disburse.AccountID {
	owner, _ := disburse.GetOwner(ctx)
	return owner
}

// Validator decides if a string is a well formed account identifier.
type Validator interface {
	IsValid(string) bool
}

// ValidatorFunc is an adapter to use an ordinary function as a Validator.
type ValidatorFunc func(string) bool

// IsValid calls fn(s).
func (fn ValidatorFunc) IsValid(s string) bool {
	return fn(s)
}

// DefaultValidator accepts account identifiers as defined by
// disburse.IsValidAccountID.
var DefaultValidator Validator = ValidatorFunc(disburse.IsValidAccountID)
