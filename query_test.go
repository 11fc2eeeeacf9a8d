package disburse

import (
	"testing"

	"github.com/iov-one/disburse/disbursetest/assert"
)

type staticQuery []Model

func (q staticQuery) Query(ReadOnlyKVStore, string, []byte) ([]Model, error) {
	return q, nil
}

func TestQueryRouter(t *testing.T) {
	qr := NewQueryRouter()
	qr.RegisterAll(func(r QueryRouter) {
		r.Register("ledger/supply", staticQuery{Pair([]byte("supply"), []byte{1})})
	})

	h := qr.Handler("ledger/supply")
	if h == nil {
		t.Fatal("handler not registered")
	}
	models, err := h.Query(nil, KeyQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, []Model{{Key: []byte("supply"), Value: []byte{1}}}, models)

	assert.Nil(t, qr.Handler("unknown"))
	assert.Panics(t, func() {
		qr.Register("ledger/supply", staticQuery{})
	})
}
