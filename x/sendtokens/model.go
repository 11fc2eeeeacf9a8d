package sendtokens

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

const (
	stateKey      = "sendtokens:state"
	balancePrefix = "sendtokens:bal:"
)

// Validate ensures the state holds only non empty recipients.
func (m *LedgerState) Validate() error {
	for i, r := range m.Recipients {
		if r == "" {
			return errors.Wrapf(errors.ErrEmpty, "recipient %d", i)
		}
	}
	return nil
}

// Copy returns a deep copy of the state.
func (m *LedgerState) Copy() *LedgerState {
	cpy := &LedgerState{TotalSupply: m.TotalSupply}
	if len(m.Recipients) > 0 {
		cpy.Recipients = make([]string, len(m.Recipients))
		copy(cpy.Recipients, m.Recipients)
	}
	return cpy
}

func balanceKey(account disburse.AccountID) []byte {
	return []byte(balancePrefix + string(account))
}

// loadState returns the stored ledger state. A ledger that was never
// initialized has no supply and no recipients.
func loadState(db disburse.ReadOnlyKVStore) (*LedgerState, error) {
	raw, err := db.Get([]byte(stateKey))
	if err != nil {
		return nil, errors.Wrap(err, "load state")
	}
	var state LedgerState
	if raw == nil {
		return &state, nil
	}
	if err := proto.Unmarshal(raw, &state); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "unmarshal state: %s", err)
	}
	return &state, nil
}

func saveState(db disburse.SetDeleter, state *LedgerState) error {
	if err := state.Validate(); err != nil {
		return errors.Wrap(err, "state")
	}
	raw, err := proto.Marshal(state)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "marshal state: %s", err)
	}
	return db.Set([]byte(stateKey), raw)
}

// loadBalance returns the balance of given account. Absence means zero.
func loadBalance(db disburse.ReadOnlyKVStore, account disburse.AccountID) (uint64, error) {
	raw, err := db.Get(balanceKey(account))
	if err != nil {
		return 0, errors.Wrapf(err, "load balance of %q", account)
	}
	if raw == nil {
		return 0, nil
	}
	balance, err := decodeBalance(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "balance of %q", account)
	}
	return balance, nil
}

func decodeBalance(raw []byte) (uint64, error) {
	var acc Account
	if err := proto.Unmarshal(raw, &acc); err != nil {
		return 0, errors.Wrap(errors.ErrModel, err.Error())
	}
	return acc.Balance, nil
}

func saveBalance(db disburse.SetDeleter, account disburse.AccountID, balance uint64) error {
	raw, err := proto.Marshal(&Account{Balance: balance})
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "marshal balance of %q: %s", account, err)
	}
	return db.Set(balanceKey(account), raw)
}
