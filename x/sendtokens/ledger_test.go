package sendtokens

import (
	"context"
	"math"
	"testing"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/disbursetest"
	"github.com/iov-one/disburse/disbursetest/assert"
	"github.com/iov-one/disburse/errors"
	"github.com/iov-one/disburse/store"
)

const owner disburse.AccountID = "ledger.near"

// anyAccount accepts every identifier, including single letter names.
var anyAccount = ValidatorFunc(func(string) bool { return true })

func newLedgerStore(t testing.TB, supply uint64, recipients ...string) disburse.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	assert.Nil(t, saveState(db, &LedgerState{TotalSupply: supply, Recipients: recipients}))
	return db
}

type ledgerSnapshot struct {
	Supply     uint64
	Recipients []disburse.AccountID
	Balances   map[disburse.AccountID]uint64
}

func takeSnapshot(t testing.TB, db disburse.ReadOnlyKVStore, accounts ...disburse.AccountID) ledgerSnapshot {
	t.Helper()
	supply, err := Supply(db)
	assert.Nil(t, err)
	recipients, err := Recipients(db)
	assert.Nil(t, err)
	balances := make(map[disburse.AccountID]uint64)
	for _, a := range accounts {
		b, err := Balance(db, a)
		assert.Nil(t, err)
		balances[a] = b
	}
	return ledgerSnapshot{Supply: supply, Recipients: recipients, Balances: balances}
}

func TestUnauthorizedCallerChangesNothing(t *testing.T) {
	cases := map[string]func(*Ledger, disburse.KVStore) error{
		"send tokens": func(l *Ledger, db disburse.KVStore) error {
			return l.SendTokens(context.Background(), db, 10)
		},
		"add recipient": func(l *Ledger, db disburse.KVStore) error {
			return l.AddRecipient(context.Background(), db, "carol.near")
		},
		"remove recipient": func(l *Ledger, db disburse.KVStore) error {
			return l.RemoveRecipient(context.Background(), db, "alice.near")
		},
	}

	identities := map[string]*disbursetest.Identity{
		"stranger":      {CallerID: "mallory.near", OwnerID: owner},
		"no caller":     {OwnerID: owner},
		"no owner":      {CallerID: owner},
		"nothing known": {},
	}

	for testName, call := range cases {
		for idName, identity := range identities {
			t.Run(testName+" by "+idName, func(t *testing.T) {
				db := newLedgerStore(t, 100, "alice.near", "bob.near")
				before := takeSnapshot(t, db, "alice.near", "bob.near", "carol.near")

				var events disbursetest.EventRecorder
				l := NewLedger(identity, nil, &events)
				err := call(l, db)
				assert.IsErr(t, errors.ErrUnauthorized, err)

				assert.Equal(t, before, takeSnapshot(t, db, "alice.near", "bob.near", "carol.near"))
				assert.Equal(t, 0, len(events.Events))
			})
		}
	}
}

func TestSendTokensScenario(t *testing.T) {
	db := newLedgerStore(t, 100, "a", "b")
	var events disbursetest.EventRecorder
	l := NewLedger(disbursetest.AsOwner(owner), anyAccount, &events)
	ctx := context.Background()

	// 30 * 2 = 60 fits into the supply of 100
	assert.Nil(t, l.SendTokens(ctx, db, 30))
	assert.Equal(t, ledgerSnapshot{
		Supply:     40,
		Recipients: []disburse.AccountID{"a", "b"},
		Balances:   map[disburse.AccountID]uint64{"a": 30, "b": 30},
	}, takeSnapshot(t, db, "a", "b"))
	assert.Equal(t, []string{"Sent 30 tokens to a", "Sent 30 tokens to b"}, events.Events)
	events.Reset()

	// 21 * 2 = 42 exceeds the remaining supply of 40
	err := l.SendTokens(ctx, db, 21)
	assert.IsErr(t, ErrInsufficientSupply, err)
	assert.Equal(t, 0, len(events.Events))

	// 20 * 2 = 40 drains the supply completely
	assert.Nil(t, l.SendTokens(ctx, db, 20))
	assert.Equal(t, ledgerSnapshot{
		Supply:     0,
		Recipients: []disburse.AccountID{"a", "b"},
		Balances:   map[disburse.AccountID]uint64{"a": 50, "b": 50},
	}, takeSnapshot(t, db, "a", "b"))
	assert.Equal(t, []string{"Sent 20 tokens to a", "Sent 20 tokens to b"}, events.Events)
}

func TestSendTokensWithoutRecipients(t *testing.T) {
	db := newLedgerStore(t, 100)
	var events disbursetest.EventRecorder
	l := NewLedger(disbursetest.AsOwner(owner), nil, &events)

	assert.Nil(t, l.SendTokens(context.Background(), db, 50))

	supply, err := Supply(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), supply)
	assert.Equal(t, 0, len(events.Events))
}

func TestSendTokensFailuresChangeNothing(t *testing.T) {
	strict := ValidatorFunc(func(s string) bool { return s != "banned.near" })

	cases := map[string]struct {
		Supply     uint64
		Recipients []string
		Balances   map[disburse.AccountID]uint64
		Validator  Validator
		Amount     uint64
		WantErr    *errors.Error
	}{
		"insufficient supply": {
			Supply:     10,
			Recipients: []string{"alice.near", "bob.near"},
			Amount:     6,
			WantErr:    ErrInsufficientSupply,
		},
		"total amount overflows": {
			Supply:     math.MaxUint64,
			Recipients: []string{"alice.near", "bob.near"},
			Amount:     math.MaxUint64/2 + 1,
			WantErr:    errors.ErrOverflow,
		},
		"balance overflows": {
			Supply:     100,
			Recipients: []string{"alice.near", "bob.near"},
			Balances:   map[disburse.AccountID]uint64{"bob.near": math.MaxUint64 - 1},
			Amount:     2,
			WantErr:    errors.ErrOverflow,
		},
		"duplicated recipient balance overflows": {
			Supply:     100,
			Recipients: []string{"alice.near", "alice.near"},
			Balances:   map[disburse.AccountID]uint64{"alice.near": math.MaxUint64 - 3},
			Amount:     2,
			WantErr:    errors.ErrOverflow,
		},
		"invalid recipient in the middle": {
			Supply:     100,
			Recipients: []string{"alice.near", "banned.near", "bob.near"},
			Validator:  strict,
			Amount:     5,
			WantErr:    ErrInvalidRecipient,
		},
		"invalid last recipient": {
			Supply:     100,
			Recipients: []string{"alice.near", "bob.near", "banned.near"},
			Validator:  strict,
			Amount:     5,
			WantErr:    ErrInvalidRecipient,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newLedgerStore(t, tc.Supply, tc.Recipients...)
			for acc, b := range tc.Balances {
				assert.Nil(t, saveBalance(db, acc, b))
			}
			accounts := []disburse.AccountID{"alice.near", "bob.near", "banned.near"}
			before := takeSnapshot(t, db, accounts...)

			var events disbursetest.EventRecorder
			l := NewLedger(disbursetest.AsOwner(owner), tc.Validator, &events)
			err := l.SendTokens(context.Background(), db, tc.Amount)
			assert.IsErr(t, tc.WantErr, err)

			assert.Equal(t, before, takeSnapshot(t, db, accounts...))
			assert.Equal(t, 0, len(events.Events))
		})
	}
}

func TestBalancesAccumulateAcrossCalls(t *testing.T) {
	db := newLedgerStore(t, 1000, "alice.near")
	l := NewLedger(disbursetest.AsOwner(owner), nil, nil)
	ctx := context.Background()

	assert.Nil(t, l.SendTokens(ctx, db, 10))
	assert.Nil(t, l.AddRecipient(ctx, db, "bob.near"))
	assert.Nil(t, l.SendTokens(ctx, db, 7))
	assert.Nil(t, l.RemoveRecipient(ctx, db, "alice.near"))
	assert.Nil(t, l.SendTokens(ctx, db, 3))

	assert.Equal(t, ledgerSnapshot{
		Supply:     1000 - 10 - 14 - 3,
		Recipients: []disburse.AccountID{"bob.near"},
		Balances: map[disburse.AccountID]uint64{
			"alice.near": 17,
			"bob.near":   10,
		},
	}, takeSnapshot(t, db, "alice.near", "bob.near"))
}

func TestDuplicatedRecipientIsCreditedTwice(t *testing.T) {
	db := newLedgerStore(t, 100, "alice.near")
	var events disbursetest.EventRecorder
	l := NewLedger(disbursetest.AsOwner(owner), nil, &events)
	ctx := context.Background()

	assert.Nil(t, l.AddRecipient(ctx, db, "alice.near"))
	assert.Nil(t, l.SendTokens(ctx, db, 5))

	assert.Equal(t, ledgerSnapshot{
		Supply:     90,
		Recipients: []disburse.AccountID{"alice.near", "alice.near"},
		Balances:   map[disburse.AccountID]uint64{"alice.near": 10},
	}, takeSnapshot(t, db, "alice.near"))
	assert.Equal(t, []string{"Sent 5 tokens to alice.near", "Sent 5 tokens to alice.near"}, events.Events)
}

func TestAddRecipient(t *testing.T) {
	db := newLedgerStore(t, 0, "alice.near")
	l := NewLedger(disbursetest.AsOwner(owner), nil, nil)
	ctx := context.Background()

	assert.Nil(t, l.AddRecipient(ctx, db, "bob.near"))
	got, err := Recipients(db)
	assert.Nil(t, err)
	assert.Equal(t, []disburse.AccountID{"alice.near", "bob.near"}, got)

	// adding again appends one more entry
	assert.Nil(t, l.AddRecipient(ctx, db, "bob.near"))
	got, err = Recipients(db)
	assert.Nil(t, err)
	assert.Equal(t, []disburse.AccountID{"alice.near", "bob.near", "bob.near"}, got)
}

func TestAddInvalidRecipient(t *testing.T) {
	db := newLedgerStore(t, 0, "alice.near")
	l := NewLedger(disbursetest.AsOwner(owner), nil, nil)

	err := l.AddRecipient(context.Background(), db, "bad id")
	assert.IsErr(t, ErrInvalidRecipient, err)

	got, err := Recipients(db)
	assert.Nil(t, err)
	assert.Equal(t, []disburse.AccountID{"alice.near"}, got)
}

func TestRemoveRecipient(t *testing.T) {
	cases := map[string]struct {
		Recipients []string
		Remove     disburse.AccountID
		WantFirst  []disburse.AccountID
		WantSecond []disburse.AccountID
	}{
		"single occurrence": {
			Recipients: []string{"alice.near", "bob.near", "carol.near"},
			Remove:     "bob.near",
			WantFirst:  []disburse.AccountID{"alice.near", "carol.near"},
			WantSecond: []disburse.AccountID{"alice.near", "carol.near"},
		},
		"first of duplicates": {
			Recipients: []string{"bob.near", "alice.near", "bob.near"},
			Remove:     "bob.near",
			WantFirst:  []disburse.AccountID{"alice.near", "bob.near"},
			WantSecond: []disburse.AccountID{"alice.near"},
		},
		"absent": {
			Recipients: []string{"alice.near"},
			Remove:     "bob.near",
			WantFirst:  []disburse.AccountID{"alice.near"},
			WantSecond: []disburse.AccountID{"alice.near"},
		},
		"empty list": {
			Remove:     "bob.near",
			WantFirst:  []disburse.AccountID{},
			WantSecond: []disburse.AccountID{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newLedgerStore(t, 0, tc.Recipients...)
			l := NewLedger(disbursetest.AsOwner(owner), nil, nil)
			ctx := context.Background()

			assert.Nil(t, l.RemoveRecipient(ctx, db, tc.Remove))
			got, err := Recipients(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantFirst, got)

			assert.Nil(t, l.RemoveRecipient(ctx, db, tc.Remove))
			got, err = Recipients(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantSecond, got)
		})
	}
}

func TestRecipientsReturnsCopy(t *testing.T) {
	db := newLedgerStore(t, 0, "alice.near")
	got, err := Recipients(db)
	assert.Nil(t, err)
	got[0] = "mallory.near"

	again, err := Recipients(db)
	assert.Nil(t, err)
	assert.Equal(t, []disburse.AccountID{"alice.near"}, again)
}

func TestEmptyLedger(t *testing.T) {
	db := store.MemStore()

	got, err := Recipients(db)
	assert.Nil(t, err)
	assert.Equal(t, []disburse.AccountID{}, got)

	supply, err := Supply(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), supply)

	balance, err := Balance(db, "alice.near")
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestContextIdentity(t *testing.T) {
	ctx := context.Background()
	var id ContextIdentity
	assert.Equal(t, disburse.AccountID(""), id.Caller(ctx))
	assert.Equal(t, disburse.AccountID(""), id.Owner(ctx))

	ctx = disburse.WithOwner(ctx, owner)
	ctx = disburse.WithCaller(ctx, "alice.near")
	assert.Equal(t, disburse.AccountID("alice.near"), id.Caller(ctx))
	assert.Equal(t, owner, id.Owner(ctx))

	db := newLedgerStore(t, 10, "bob.near")
	l := NewLedger(id, nil, nil)
	assert.IsErr(t, errors.ErrUnauthorized, l.SendTokens(ctx, db, 1))
	assert.Nil(t, l.SendTokens(disburse.WithCaller(ctx, owner), db, 1))
}
