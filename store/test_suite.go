package store

import (
	"bytes"
	"testing"

	"github.com/iov-one/disburse/disbursetest/assert"
	"github.com/iov-one/disburse/errors"
)

// TestSuite runs the same checks against any CacheableKVStore. It is shared
// by btree_test.go and iavl/adapter_test.go.
//
// Keys follow the layout of the token ledger: one state record and one
// balance record per account, all under a common prefix.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

var (
	ledgerState = []byte("sendtokens:state")
	balPrefix   = []byte("sendtokens:bal:")
	balEnd      = []byte("sendtokens:bal;")
)

func balKey(account string) []byte {
	return append(append([]byte{}, balPrefix...), account...)
}

// Savepoints checks that writes stay in a cache until Write, and vanish on
// Discard.
func (s *TestSuite) Savepoints(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	s.AssertGetHas(t, base, ledgerState, nil, false)
	assert.Nil(t, base.Set(ledgerState, []byte("supply=100")))
	s.AssertGetHas(t, base, ledgerState, []byte("supply=100"), true)

	// a cache reads through to the base
	tx := base.CacheWrap()
	s.AssertGetHas(t, tx, ledgerState, []byte("supply=100"), true)

	// writes are only visible in the cache
	alice := balKey("alice.near")
	s.AssertGetHas(t, tx, alice, nil, false)
	assert.Nil(t, tx.Set(alice, []byte("10")))
	assert.Nil(t, tx.Set(ledgerState, []byte("supply=90")))
	s.AssertGetHas(t, tx, alice, []byte("10"), true)
	s.AssertGetHas(t, base, alice, nil, false)
	s.AssertGetHas(t, base, ledgerState, []byte("supply=100"), true)

	assert.Nil(t, tx.Write())
	s.AssertGetHas(t, base, alice, []byte("10"), true)
	s.AssertGetHas(t, base, ledgerState, []byte("supply=90"), true)

	// a failed transfer is discarded as a whole
	failed := base.CacheWrap()
	bob := balKey("bob.near")
	assert.Nil(t, failed.Set(bob, []byte("10")))
	assert.Nil(t, failed.Set(ledgerState, []byte("supply=80")))
	failed.Discard()
	s.AssertGetHas(t, failed, bob, nil, false)
	s.AssertGetHas(t, failed, ledgerState, []byte("supply=90"), true)
	s.AssertGetHas(t, base, bob, nil, false)

	// a delete reaches the base on Write
	drop := base.CacheWrap()
	assert.Nil(t, drop.Delete(alice))
	s.AssertGetHas(t, drop, alice, nil, false)
	s.AssertGetHas(t, base, alice, []byte("10"), true)
	assert.Nil(t, drop.Write())
	s.AssertGetHas(t, base, alice, nil, false)
}

// Overwrites checks a cache hides parent values it overwrites or deletes.
func (s *TestSuite) Overwrites(t *testing.T) {
	alice, bob, carol := balKey("alice.near"), balKey("bob.near"), balKey("carol.near")

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model
	}{
		"credit one, drop another, add a third": {
			parentOps:     []Op{SetOp(alice, []byte("10")), SetOp(bob, []byte("20"))},
			childOps:      []Op{SetOp(alice, []byte("15")), SetOp(carol, []byte("5")), DelOp(bob)},
			parentQueries: []Model{Pair(alice, []byte("10")), Pair(bob, []byte("20")), Pair(carol, nil)},
			childQueries:  []Model{Pair(alice, []byte("15")), Pair(bob, nil), Pair(carol, []byte("5"))},
		},
		"set after delete revives the key": {
			parentOps:     []Op{SetOp(alice, []byte("10"))},
			childOps:      []Op{DelOp(alice), SetOp(alice, []byte("0"))},
			parentQueries: []Model{Pair(alice, []byte("10"))},
			childQueries:  []Model{Pair(alice, []byte("0"))},
		},
		"delete of a missing key is harmless": {
			parentOps:     []Op{SetOp(ledgerState, []byte("supply=100"))},
			childOps:      []Op{DelOp(carol)},
			parentQueries: []Model{Pair(ledgerState, []byte("supply=100")), Pair(carol, nil)},
			childQueries:  []Model{Pair(ledgerState, []byte("supply=100")), Pair(carol, nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// BalanceScans checks forward and reverse iteration over the balance
// prefix, merging parent records with cached writes and deletes.
func (s *TestSuite) BalanceScans(t *testing.T) {
	alice := Pair(balKey("alice.near"), []byte("10"))
	alice2 := Pair(balKey("alice.near"), []byte("25"))
	bob := Pair(balKey("bob.near"), []byte("10"))
	carol := Pair(balKey("carol.near"), []byte("10"))
	dave := Pair(balKey("dave.near"), []byte("5"))
	state := Pair(ledgerState, []byte("supply=70"))

	cases := map[string]iterCase{
		"balances in cache only": {
			child: makeSetOps(state, carol, alice, bob),
			queries: []rangeQuery{
				{balPrefix, balEnd, false, []Model{alice, bob, carol}},
				{balPrefix, balEnd, true, []Model{carol, bob, alice}},
				{bob.Key, balEnd, false, []Model{bob, carol}},
				{balPrefix, bob.Key, true, []Model{alice}},
			},
		},
		"balances in parent only": {
			pre: makeSetOps(state, alice, bob, carol),
			queries: []rangeQuery{
				{balPrefix, balEnd, false, []Model{alice, bob, carol}},
				{balPrefix, balEnd, true, []Model{carol, bob, alice}},
				{nil, nil, false, []Model{alice, bob, carol, state}},
			},
		},
		"cache credits and adds recipients": {
			pre:   makeSetOps(state, alice, carol),
			child: makeSetOps(alice2, bob, dave),
			queries: []rangeQuery{
				{balPrefix, balEnd, false, []Model{alice2, bob, carol, dave}},
				{balPrefix, balEnd, true, []Model{dave, carol, bob, alice2}},
				{bob.Key, dave.Key, false, []Model{bob, carol}},
				{nil, nil, true, []Model{state, dave, carol, bob, alice2}},
			},
		},
		"deleted balances are skipped": {
			pre:   makeSetOps(state, alice, carol, dave),
			child: makeDelOps(alice, bob, dave),
			queries: []rangeQuery{
				{balPrefix, balEnd, false, []Model{carol}},
				{balPrefix, balEnd, true, []Model{carol}},
				{balPrefix, carol.Key, false, nil},
			},
		},
		"empty range": {
			pre:   makeSetOps(state),
			child: makeSetOps(Pair(ledgerState, []byte("supply=0"))),
			queries: []rangeQuery{
				{balPrefix, balEnd, false, nil},
				{balPrefix, balEnd, true, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// iterCase applies pre to the base and child to a cache on top of it, then
// runs every query against the cache.
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}
	child := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range i.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		for n, want := range q.expected {
			if !iter.Valid() {
				t.Fatalf("iterator ended after %d of %d items", n, len(q.expected))
			}
			if !bytes.Equal(want.Key, iter.Key()) {
				t.Fatalf("item %d: want key %q, got %q", n, want.Key, iter.Key())
			}
			assert.Equal(t, want.Value, iter.Value())
			assert.Nil(t, iter.Next())
		}
		if iter.Valid() {
			t.Fatalf("want iterator done, got key %q", iter.Key())
		}
		if err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("want ErrIteratorDone, got %+v", err)
		}
		iter.Close()
	}
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
