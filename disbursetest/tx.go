package disbursetest

import "github.com/iov-one/disburse"

// Tx represents a ledger transaction.
// Transaction represents a single message that is to be processed within this
// transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg disburse.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ disburse.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (disburse.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a ledger message.
// Message is a request processed within a single transaction.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by the Validate method.
	Err error
}

var _ disburse.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
