package sendtokens

import (
	"fmt"
	"math/bits"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

// Ledger performs all operations on the distribution ledger state. It holds
// no state itself, every call reads from and writes to the given store.
type Ledger struct {
	identity  Identity
	validator Validator
	sink      disburse.EventSink
}

// NewLedger returns a ledger using given collaborators. A nil validator
// falls back to DefaultValidator and a nil sink drops all audit lines.
func NewLedger(identity Identity, validator Validator, sink disburse.EventSink) *Ledger {
	if validator == nil {
		validator = DefaultValidator
	}
	if sink == nil {
		sink = disburse.MultiSink(nil)
	}
	return &Ledger{
		identity:  identity,
		validator: validator,
		sink:      sink,
	}
}

// authorize fails unless the caller is the owner of the ledger.
func (l *Ledger) authorize(ctx disburse.Context) error {
	owner := l.identity.Owner(ctx)
	if owner == "" {
		return errors.Wrap(errors.ErrUnauthorized, "ledger owner not set")
	}
	caller := l.identity.Caller(ctx)
	if !caller.Equals(owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "caller %q is not the owner", caller)
	}
	return nil
}

// SendTokens credits amount to every recipient and debits the supply by the
// total. Nothing is written and no audit line is recorded unless the whole
// distribution can be applied.
func (l *Ledger) SendTokens(ctx disburse.Context, db disburse.KVStore, amount uint64) error {
	if err := l.authorize(ctx); err != nil {
		return err
	}
	state, err := loadState(db)
	if err != nil {
		return err
	}
	if len(state.Recipients) == 0 {
		return nil
	}

	hi, total := bits.Mul64(amount, uint64(len(state.Recipients)))
	if hi != 0 {
		return errors.Wrapf(errors.ErrOverflow, "%d tokens to %d recipients", amount, len(state.Recipients))
	}
	if state.TotalSupply < total {
		return errors.Wrapf(ErrInsufficientSupply, "need %d, have %d", total, state.TotalSupply)
	}

	recipients := make([]disburse.AccountID, len(state.Recipients))
	for i, r := range state.Recipients {
		if !l.validator.IsValid(r) {
			return errors.Wrapf(ErrInvalidRecipient, "recipient %q", r)
		}
		recipients[i] = disburse.AccountID(r)
	}

	// Duplicated recipients accumulate, so balances are computed in
	// memory before anything is written.
	balances := make(map[disburse.AccountID]uint64, len(recipients))
	for _, r := range recipients {
		prev, ok := balances[r]
		if !ok {
			if prev, err = loadBalance(db, r); err != nil {
				return err
			}
		}
		next, carry := bits.Add64(prev, amount, 0)
		if carry != 0 {
			return errors.Wrapf(errors.ErrOverflow, "balance of %q", r)
		}
		balances[r] = next
	}

	state.TotalSupply -= total
	if err := saveState(db, state); err != nil {
		return err
	}
	for _, r := range recipients {
		if err := saveBalance(db, r, balances[r]); err != nil {
			return err
		}
	}

	for _, r := range recipients {
		l.sink.Record(fmt.Sprintf("Sent %d tokens to %s", amount, r))
	}
	return nil
}

// AddRecipient appends recipient to the end of the recipients list. Adding
// an account that is already present creates a duplicate entry.
func (l *Ledger) AddRecipient(ctx disburse.Context, db disburse.KVStore, recipient disburse.AccountID) error {
	if err := l.authorize(ctx); err != nil {
		return err
	}
	if !l.validator.IsValid(string(recipient)) {
		return errors.Wrapf(ErrInvalidRecipient, "recipient %q", recipient)
	}
	state, err := loadState(db)
	if err != nil {
		return err
	}
	state.Recipients = append(state.Recipients, string(recipient))
	return saveState(db, state)
}

// RemoveRecipient removes the first occurrence of recipient from the
// recipients list. Removing an absent account is a no-op.
func (l *Ledger) RemoveRecipient(ctx disburse.Context, db disburse.KVStore, recipient disburse.AccountID) error {
	if err := l.authorize(ctx); err != nil {
		return err
	}
	state, err := loadState(db)
	if err != nil {
		return err
	}
	for i, r := range state.Recipients {
		if r == string(recipient) {
			state.Recipients = append(state.Recipients[:i], state.Recipients[i+1:]...)
			return saveState(db, state)
		}
	}
	return nil
}

// Recipients returns a copy of the current recipients list, in order.
func Recipients(db disburse.ReadOnlyKVStore) ([]disburse.AccountID, error) {
	state, err := loadState(db)
	if err != nil {
		return nil, err
	}
	res := make([]disburse.AccountID, len(state.Recipients))
	for i, r := range state.Recipients {
		res[i] = disburse.AccountID(r)
	}
	return res, nil
}

// Supply returns the amount of tokens that were not distributed yet.
func Supply(db disburse.ReadOnlyKVStore) (uint64, error) {
	state, err := loadState(db)
	if err != nil {
		return 0, err
	}
	return state.TotalSupply, nil
}

// Balance returns the total amount ever credited to given account.
func Balance(db disburse.ReadOnlyKVStore, account disburse.AccountID) (uint64, error) {
	return loadBalance(db, account)
}
