package sendtokens

import (
	"testing"

	"github.com/iov-one/disburse/disbursetest/assert"
	"github.com/iov-one/disburse/errors"
	"github.com/iov-one/disburse/store"
)

func TestLedgerStateValidate(t *testing.T) {
	assert.Nil(t, (&LedgerState{TotalSupply: 1, Recipients: []string{"alice.near"}}).Validate())
	assert.Nil(t, (&LedgerState{}).Validate())

	err := (&LedgerState{Recipients: []string{"alice.near", ""}}).Validate()
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestLedgerStateCopy(t *testing.T) {
	orig := &LedgerState{TotalSupply: 5, Recipients: []string{"alice.near"}}
	cpy := orig.Copy()
	assert.Equal(t, orig, cpy)

	cpy.Recipients[0] = "bob.near"
	cpy.TotalSupply = 1
	assert.Equal(t, &LedgerState{TotalSupply: 5, Recipients: []string{"alice.near"}}, orig)
}

func TestStateRoundTrip(t *testing.T) {
	db := store.MemStore()
	want := &LedgerState{TotalSupply: 77, Recipients: []string{"alice.near", "bob.near", "alice.near"}}
	assert.Nil(t, saveState(db, want))

	got, err := loadState(db)
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	assert.Nil(t, saveBalance(db, "alice.near", 12))
	balance, err := loadBalance(db, "alice.near")
	assert.Nil(t, err)
	assert.Equal(t, uint64(12), balance)
}

func TestLoadCorruptedState(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, db.Set([]byte(stateKey), []byte{0xff, 0xff, 0xff}))
	_, err := loadState(db)
	assert.IsErr(t, errors.ErrModel, err)
}
