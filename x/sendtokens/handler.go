package sendtokens

import (
	"encoding/binary"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

const (
	queryRecipients = "sendtokens/recipients"
	querySupply     = "sendtokens/supply"
	queryBalances   = "sendtokens/balances"
)

// RegisterQuery registers all ledger queries.
func RegisterQuery(qr disburse.QueryRouter) {
	qr.Register(queryRecipients, recipientsQuery{})
	qr.Register(querySupply, supplyQuery{})
	qr.Register(queryBalances, balancesQuery{})
}

// RegisterRoutes registers handlers for all ledger messages. Audit lines of
// every successful operation are forwarded to the sink.
func RegisterRoutes(r disburse.Registry, identity Identity, validator Validator, sink disburse.EventSink) {
	h := ledgerHandler{
		identity:  identity,
		validator: validator,
		sink:      sink,
	}
	r.Handle(pathSendTokensMsg, sendTokensHandler{h})
	r.Handle(pathAddRecipientMsg, addRecipientHandler{h})
	r.Handle(pathRemoveRecipientMsg, removeRecipientHandler{h})
}

type ledgerHandler struct {
	identity  Identity
	validator Validator
	sink      disburse.EventSink
}

// ledger returns a ledger recording audit lines to given log and to the
// configured sink.
func (h ledgerHandler) ledger(events *disburse.EventLog) *Ledger {
	return NewLedger(h.identity, h.validator, disburse.MultiSink{events, h.sink})
}

// checkLedger returns a ledger that drops all audit lines. Checks run on a
// throw away store, so nothing they emit must be recorded.
func (h ledgerHandler) checkLedger() *Ledger {
	return NewLedger(h.identity, h.validator, nil)
}

type sendTokensHandler struct {
	ledgerHandler
}

var _ disburse.Handler = sendTokensHandler{}

func (h sendTokensHandler) Check(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.CheckResult, error) {
	var msg SendTokensMsg
	if err := disburse.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.checkLedger().SendTokens(ctx, db, msg.Amount); err != nil {
		return nil, err
	}
	return &disburse.CheckResult{}, nil
}

func (h sendTokensHandler) Deliver(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.DeliverResult, error) {
	var msg SendTokensMsg
	if err := disburse.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var events disburse.EventLog
	if err := h.ledger(&events).SendTokens(ctx, db, msg.Amount); err != nil {
		return nil, err
	}
	return disburse.NewDeliverResult(events.Lines()), nil
}

type addRecipientHandler struct {
	ledgerHandler
}

var _ disburse.Handler = addRecipientHandler{}

func (h addRecipientHandler) Check(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.CheckResult, error) {
	var msg AddRecipientMsg
	if err := disburse.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.checkLedger().AddRecipient(ctx, db, disburse.AccountID(msg.Recipient)); err != nil {
		return nil, err
	}
	return &disburse.CheckResult{}, nil
}

func (h addRecipientHandler) Deliver(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.DeliverResult, error) {
	var msg AddRecipientMsg
	if err := disburse.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var events disburse.EventLog
	if err := h.ledger(&events).AddRecipient(ctx, db, disburse.AccountID(msg.Recipient)); err != nil {
		return nil, err
	}
	return disburse.NewDeliverResult(events.Lines()), nil
}

type removeRecipientHandler struct {
	ledgerHandler
}

var _ disburse.Handler = removeRecipientHandler{}

func (h removeRecipientHandler) Check(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.CheckResult, error) {
	var msg RemoveRecipientMsg
	if err := disburse.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.checkLedger().RemoveRecipient(ctx, db, disburse.AccountID(msg.Recipient)); err != nil {
		return nil, err
	}
	return &disburse.CheckResult{}, nil
}

func (h removeRecipientHandler) Deliver(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.DeliverResult, error) {
	var msg RemoveRecipientMsg
	if err := disburse.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var events disburse.EventLog
	if err := h.ledger(&events).RemoveRecipient(ctx, db, disburse.AccountID(msg.Recipient)); err != nil {
		return nil, err
	}
	return disburse.NewDeliverResult(events.Lines()), nil
}

// recipientsQuery returns one model per recipient, in order. The key is the
// position of the recipient as a big endian uint64.
type recipientsQuery struct{}

func (recipientsQuery) Query(db disburse.ReadOnlyKVStore, mod string, data []byte) ([]disburse.Model, error) {
	recipients, err := Recipients(db)
	if err != nil {
		return nil, err
	}
	res := make([]disburse.Model, len(recipients))
	for i, r := range recipients {
		res[i] = disburse.Pair(encodeUint64(uint64(i)), []byte(r))
	}
	return res, nil
}

// supplyQuery returns the remaining supply as a big endian uint64.
type supplyQuery struct{}

func (supplyQuery) Query(db disburse.ReadOnlyKVStore, mod string, data []byte) ([]disburse.Model, error) {
	supply, err := Supply(db)
	if err != nil {
		return nil, err
	}
	return []disburse.Model{disburse.Pair([]byte(stateKey), encodeUint64(supply))}, nil
}

// balancesQuery returns the balance of the account given as the query data.
// With the prefix mod, all balances of accounts starting with the data are
// returned. Keys are account identifiers, values are big endian uint64.
type balancesQuery struct{}

func (balancesQuery) Query(db disburse.ReadOnlyKVStore, mod string, data []byte) ([]disburse.Model, error) {
	switch mod {
	case disburse.KeyQueryMod:
		if len(data) == 0 {
			return nil, errors.Wrap(errors.ErrInput, "account required")
		}
		balance, err := Balance(db, disburse.AccountID(data))
		if err != nil {
			return nil, err
		}
		return []disburse.Model{disburse.Pair(data, encodeUint64(balance))}, nil
	case disburse.PrefixQueryMod:
		return prefixBalances(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

func prefixBalances(db disburse.ReadOnlyKVStore, prefix []byte) ([]disburse.Model, error) {
	start := append([]byte(balancePrefix), prefix...)
	iter, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var res []disburse.Model
	for iter.Valid() {
		account := iter.Key()[len(balancePrefix):]
		balance, err := decodeBalance(iter.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "balance of %q", account)
		}
		res = append(res, disburse.Pair(account, encodeUint64(balance)))
		if err := iter.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prefixEnd returns the smallest key that is greater than all keys with
// given prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func encodeUint64(n uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n)
	return raw
}

// DecodeUint64 decodes a value returned by the supply or balances query.
func DecodeUint64(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "want 8 bytes, got %d", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
