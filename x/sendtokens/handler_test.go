package sendtokens

import (
	"context"
	"testing"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/disbursetest"
	"github.com/iov-one/disburse/disbursetest/assert"
	"github.com/iov-one/disburse/errors"
)

// routes is a minimal disburse.Registry keeping handlers by path.
type routes map[string]disburse.Handler

func (r routes) Handle(path string, h disburse.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	cases := map[string]struct {
		Identity       *disbursetest.Identity
		Msg            disburse.Msg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantEvents     []string
		WantSupply     uint64
		WantRecipients []disburse.AccountID
	}{
		"send tokens": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &SendTokensMsg{Amount: 10},
			WantEvents:     []string{"Sent 10 tokens to alice.near", "Sent 10 tokens to bob.near"},
			WantSupply:     80,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"send too many tokens": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &SendTokensMsg{Amount: 51},
			WantCheckErr:   ErrInsufficientSupply,
			WantDeliverErr: ErrInsufficientSupply,
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"send by a stranger": {
			Identity:       &disbursetest.Identity{CallerID: "bob.near", OwnerID: owner},
			Msg:            &SendTokensMsg{Amount: 1},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"add recipient": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &AddRecipientMsg{Recipient: "carol.near"},
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near", "carol.near"},
		},
		"add invalid recipient": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &AddRecipientMsg{Recipient: "Carol"},
			WantCheckErr:   ErrInvalidRecipient,
			WantDeliverErr: ErrInvalidRecipient,
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"add empty recipient": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &AddRecipientMsg{},
			WantCheckErr:   ErrInvalidRecipient,
			WantDeliverErr: ErrInvalidRecipient,
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"stranger adds empty recipient": {
			Identity:       &disbursetest.Identity{CallerID: "bob.near", OwnerID: owner},
			Msg:            &AddRecipientMsg{},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"stranger removes empty recipient": {
			Identity:       &disbursetest.Identity{CallerID: "bob.near", OwnerID: owner},
			Msg:            &RemoveRecipientMsg{},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"owner removes empty recipient": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &RemoveRecipientMsg{},
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"remove recipient": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &RemoveRecipientMsg{Recipient: "alice.near"},
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"bob.near"},
		},
		"remove absent recipient": {
			Identity:       disbursetest.AsOwner(owner),
			Msg:            &RemoveRecipientMsg{Recipient: "carol.near"},
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
		"remove by a stranger": {
			Identity:       &disbursetest.Identity{CallerID: "alice.near", OwnerID: owner},
			Msg:            &RemoveRecipientMsg{Recipient: "alice.near"},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantSupply:     100,
			WantRecipients: []disburse.AccountID{"alice.near", "bob.near"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var sink disbursetest.EventRecorder
			r := make(routes)
			RegisterRoutes(r, tc.Identity, nil, &sink)

			db := newLedgerStore(t, 100, "alice.near", "bob.near")
			h, ok := r[tc.Msg.Path()]
			if !ok {
				t.Fatalf("no handler for %q", tc.Msg.Path())
			}
			tx := &disbursetest.Tx{Msg: tc.Msg}
			ctx := context.Background()

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()
			assert.Equal(t, 0, len(sink.Events))

			res, err := h.Deliver(ctx, db, tx)
			if !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantDeliverErr == nil {
				assert.Equal(t, tc.WantEvents, res.Events)
			}
			assert.Equal(t, tc.WantEvents, sink.Events)

			supply, err := Supply(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantSupply, supply)
			recipients, err := Recipients(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantRecipients, recipients)
		})
	}
}

func TestHandlerRejectsForeignMessage(t *testing.T) {
	r := make(routes)
	RegisterRoutes(r, disbursetest.AsOwner(owner), nil, nil)

	// message of a different type delivered to the send tokens handler
	tx := &disbursetest.Tx{Msg: &AddRecipientMsg{Recipient: "carol.near"}}
	_, err := r[pathSendTokensMsg].Deliver(context.Background(), newLedgerStore(t, 1), tx)
	assert.IsErr(t, errors.ErrType, err)
}

func TestQueries(t *testing.T) {
	db := newLedgerStore(t, 100, "alice.near", "bob.near")
	assert.Nil(t, saveBalance(db, "alice.near", 7))
	assert.Nil(t, saveBalance(db, "alice.testnet", 3))
	assert.Nil(t, saveBalance(db, "bob.near", 11))

	qr := disburse.NewQueryRouter()
	qr.RegisterAll(RegisterQuery)

	t.Run("recipients", func(t *testing.T) {
		res, err := qr.Handler("sendtokens/recipients").Query(db, "", nil)
		assert.Nil(t, err)
		assert.Equal(t, []disburse.Model{
			disburse.Pair(encodeUint64(0), []byte("alice.near")),
			disburse.Pair(encodeUint64(1), []byte("bob.near")),
		}, res)
	})

	t.Run("supply", func(t *testing.T) {
		res, err := qr.Handler("sendtokens/supply").Query(db, "", nil)
		assert.Nil(t, err)
		assert.Equal(t, 1, len(res))
		supply, err := DecodeUint64(res[0].Value)
		assert.Nil(t, err)
		assert.Equal(t, uint64(100), supply)
	})

	t.Run("single balance", func(t *testing.T) {
		res, err := qr.Handler("sendtokens/balances").Query(db, disburse.KeyQueryMod, []byte("bob.near"))
		assert.Nil(t, err)
		assert.Equal(t, []disburse.Model{disburse.Pair([]byte("bob.near"), encodeUint64(11))}, res)
	})

	t.Run("unknown balance is zero", func(t *testing.T) {
		res, err := qr.Handler("sendtokens/balances").Query(db, disburse.KeyQueryMod, []byte("carol.near"))
		assert.Nil(t, err)
		assert.Equal(t, []disburse.Model{disburse.Pair([]byte("carol.near"), encodeUint64(0))}, res)
	})

	t.Run("balances by prefix", func(t *testing.T) {
		res, err := qr.Handler("sendtokens/balances").Query(db, disburse.PrefixQueryMod, []byte("alice"))
		assert.Nil(t, err)
		assert.Equal(t, []disburse.Model{
			disburse.Pair([]byte("alice.near"), encodeUint64(7)),
			disburse.Pair([]byte("alice.testnet"), encodeUint64(3)),
		}, res)
	})

	t.Run("all balances", func(t *testing.T) {
		res, err := qr.Handler("sendtokens/balances").Query(db, disburse.PrefixQueryMod, nil)
		assert.Nil(t, err)
		assert.Equal(t, 3, len(res))
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := qr.Handler("sendtokens/balances").Query(db, disburse.KeyQueryMod, nil)
		assert.IsErr(t, errors.ErrInput, err)
	})

	t.Run("unknown mod", func(t *testing.T) {
		_, err := qr.Handler("sendtokens/balances").Query(db, "range", nil)
		assert.IsErr(t, errors.ErrInput, err)
	})
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("ab"), prefixEnd([]byte("aa")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}

func TestDecodeUint64(t *testing.T) {
	n, err := DecodeUint64(encodeUint64(42))
	assert.Nil(t, err)
	assert.Equal(t, uint64(42), n)

	_, err = DecodeUint64([]byte{1, 2})
	assert.IsErr(t, errors.ErrInput, err)
}
