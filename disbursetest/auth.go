package disbursetest

import "github.com/iov-one/disburse"

// Identity is a mock of an identity provider. It always reports the same
// caller and owner, regardless of the context.
type Identity struct {
	// CallerID is returned as the account invoking an operation.
	CallerID disburse.AccountID
	// OwnerID is returned as the account the ledger is deployed under.
	OwnerID disburse.AccountID
}

func (i *Identity) Caller(disburse.Context) disburse.AccountID {
	return i.CallerID
}

func (i *Identity) Owner(disburse.Context) disburse.AccountID {
	return i.OwnerID
}

// AsOwner returns an identity where the caller is the owner.
func AsOwner(owner disburse.AccountID) *Identity {
	return &Identity{CallerID: owner, OwnerID: owner}
}
