package sendtokens

import (
	"github.com/gogo/protobuf/proto"
)

// LedgerState holds the undistributed supply and the ordered list of
// recipients.
type LedgerState struct {
	TotalSupply uint64   `protobuf:"varint,1,opt,name=total_supply,json=totalSupply,proto3" json:"total_supply,omitempty"`
	Recipients  []string `protobuf:"bytes,2,rep,name=recipients,proto3" json:"recipients,omitempty"`
}

func (m *LedgerState) Reset()         { *m = LedgerState{} }
func (m *LedgerState) String() string { return proto.CompactTextString(m) }
func (*LedgerState) ProtoMessage()    {}

// Account holds the amount ever credited to a single account.
type Account struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

// SendTokensMsg distributes Amount tokens to every recipient.
type SendTokensMsg struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *SendTokensMsg) Reset()         { *m = SendTokensMsg{} }
func (m *SendTokensMsg) String() string { return proto.CompactTextString(m) }
func (*SendTokensMsg) ProtoMessage()    {}

// AddRecipientMsg appends Recipient to the list of recipients.
type AddRecipientMsg struct {
	Recipient string `protobuf:"bytes,1,opt,name=recipient,proto3" json:"recipient,omitempty"`
}

func (m *AddRecipientMsg) Reset()         { *m = AddRecipientMsg{} }
func (m *AddRecipientMsg) String() string { return proto.CompactTextString(m) }
func (*AddRecipientMsg) ProtoMessage()    {}

// RemoveRecipientMsg removes the first occurrence of Recipient from the list
// of recipients.
type RemoveRecipientMsg struct {
	Recipient string `protobuf:"bytes,1,opt,name=recipient,proto3" json:"recipient,omitempty"`
}

func (m *RemoveRecipientMsg) Reset()         { *m = RemoveRecipientMsg{} }
func (m *RemoveRecipientMsg) String() string { return proto.CompactTextString(m) }
func (*RemoveRecipientMsg) ProtoMessage()    {}
