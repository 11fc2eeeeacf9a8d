package sendtokens

import (
	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

const optKey = "sendtokens"

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct {
	// Validator checks genesis recipients. DefaultValidator is used if nil.
	Validator Validator
}

var _ disburse.Initializer = (*Initializer)(nil)

// FromGenesis will parse the initial supply and recipients from genesis and
// save them to the database. The ledger starts with no balances.
func (i *Initializer) FromGenesis(opts disburse.Options, db disburse.KVStore) error {
	if len(opts[optKey]) == 0 {
		return nil
	}
	var genesis struct {
		TotalSupply uint64   `json:"total_supply"`
		Recipients  []string `json:"recipients"`
	}
	if err := opts.ReadOptions(optKey, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read %s genesis: %s", optKey, err)
	}

	validator := i.Validator
	if validator == nil {
		validator = DefaultValidator
	}
	for _, r := range genesis.Recipients {
		if !validator.IsValid(r) {
			return errors.Wrapf(ErrInvalidRecipient, "genesis recipient %q", r)
		}
	}

	state := LedgerState{
		TotalSupply: genesis.TotalSupply,
		Recipients:  genesis.Recipients,
	}
	return saveState(db, &state)
}
