package disburse

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/disburse/disbursetest/assert"
	"github.com/iov-one/disburse/errors"
)

func TestReadOptions(t *testing.T) {
	type conf struct {
		Owner  string `json:"owner"`
		Supply uint64 `json:"supply"`
	}

	cases := map[string]struct {
		json    string
		want    conf
		wantErr bool
	}{
		"happy path": {
			json: `{"deployment": {"owner": "ledger.near", "supply": 100}}`,
			want: conf{Owner: "ledger.near", Supply: 100},
		},
		"missing key is not an error": {
			json: `{"other": {"owner": "x"}}`,
			want: conf{},
		},
		"wrong value": {
			json:    `{"deployment": {"supply": "a lot"}}`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var o Options
			assert.Nil(t, json.Unmarshal([]byte(tc.json), &o))
			var got conf
			err := o.ReadOptions("deployment", &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want an error")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type initFunc func(Options, KVStore) error

func (fn initFunc) FromGenesis(o Options, kv KVStore) error { return fn(o, kv) }

func TestChainInitializersStopsAtFirstError(t *testing.T) {
	var calls []string
	record := func(name string, err error) Initializer {
		return initFunc(func(Options, KVStore) error {
			calls = append(calls, name)
			return err
		})
	}

	init := ChainInitializers(
		record("first", nil),
		record("second", errors.ErrState.New("broken")),
		record("third", nil),
	)
	err := init.FromGenesis(Options{}, nil)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestNewDeliverResult(t *testing.T) {
	res := NewDeliverResult([]string{"one", "two"})
	assert.Equal(t, "one\ntwo", res.Log)
	assert.Equal(t, []string{"one", "two"}, res.Events)

	empty := NewDeliverResult(nil)
	assert.Equal(t, "", empty.Log)
}
