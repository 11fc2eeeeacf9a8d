package utils

import (
	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ disburse.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx, next disburse.Checker) (_ *disburse.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx, next disburse.Deliverer) (_ *disburse.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
