package sendtokens

import (
	"github.com/iov-one/disburse"
)

const (
	pathSendTokensMsg      = "sendtokens/send"
	pathAddRecipientMsg    = "sendtokens/add_recipient"
	pathRemoveRecipientMsg = "sendtokens/remove_recipient"
)

var _ disburse.Msg = (*SendTokensMsg)(nil)

// Path returns the routing path for this message.
func (SendTokensMsg) Path() string {
	return pathSendTokensMsg
}

// Validate accepts any amount, including zero.
func (m *SendTokensMsg) Validate() error {
	return nil
}

var _ disburse.Msg = (*AddRecipientMsg)(nil)

// Path returns the routing path for this message.
func (AddRecipientMsg) Path() string {
	return pathAddRecipientMsg
}

// Validate accepts any recipient. The owner is checked before the account
// format, so both are left to the ledger.
func (m *AddRecipientMsg) Validate() error {
	return nil
}

var _ disburse.Msg = (*RemoveRecipientMsg)(nil)

// Path returns the routing path for this message.
func (RemoveRecipientMsg) Path() string {
	return pathRemoveRecipientMsg
}

// Validate accepts any recipient. Removing an account that is not listed,
// including an empty one, is a no-op.
func (m *RemoveRecipientMsg) Validate() error {
	return nil
}
