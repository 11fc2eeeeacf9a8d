package app

import (
	"github.com/iov-one/disburse"
)

// Tx is a transaction carrying a single message.
type Tx struct {
	Msg disburse.Msg
}

var _ disburse.Tx = (*Tx)(nil)

// NewTx returns a transaction for given message.
func NewTx(msg disburse.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the message of this transaction.
func (tx *Tx) GetMsg() (disburse.Msg, error) {
	return tx.Msg, nil
}
