package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/app"
	"github.com/iov-one/disburse/errors"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Deploy a new ledger under the owner account. The ledger starts with the given
supply and recipients and no balances. A ledger can be deployed only once.

When a genesis file is given, all other configuration flags are ignored.
		`)
		fl.PrintDefaults()
	}
	var (
		common      = addCommonFlags(fl)
		ownerFl     = flAccount(fl, "owner", "", "Account the ledger is deployed under. Only the owner can change the ledger.")
		nameFl      = fl.String("name", "", "Optional human readable name of this deployment.")
		supplyFl    = fl.Uint64("supply", 0, "Initial amount of tokens available for distribution.")
		recipientFl = flAccounts(fl, "recipient", "Initial recipient. Can be provided many times, the order is kept.")
		genesisFl   = fl.String("genesis", "", "Optional path to a genesis file to deploy from.")
	)
	fl.Parse(args)

	var opts disburse.Options
	if *genesisFl != "" {
		var err error
		if opts, err = app.LoadGenesis(*genesisFl); err != nil {
			return err
		}
	} else {
		if *ownerFl == "" {
			flagDie("owner account must be provided.")
		}
		var err error
		if opts, err = genesisOptions(*ownerFl, *nameFl, *supplyFl, *recipientFl); err != nil {
			return err
		}
	}

	l, err := openLedger(*common.home, *common.debug)
	if err != nil {
		return err
	}
	defer l.Close()

	id, err := l.InitGenesis(opts)
	if err != nil {
		return err
	}
	if err := app.WriteGenesis(filepath.Join(*common.home, genesisFile), opts); err != nil {
		return err
	}
	fmt.Fprintf(output, "Ledger deployed under %s at height %d\n", l.Owner(), id.Version)
	return nil
}

// genesisOptions builds the genesis configuration from the command line
// values.
func genesisOptions(owner disburse.AccountID, name string, supply uint64, recipients []string) (disburse.Options, error) {
	dep, err := json.Marshal(app.Deployment{Owner: owner.String(), Name: name})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "deployment: %s", err)
	}
	if recipients == nil {
		recipients = []string{}
	}
	book, err := json.Marshal(struct {
		TotalSupply uint64   `json:"total_supply"`
		Recipients  []string `json:"recipients"`
	}{
		TotalSupply: supply,
		Recipients:  recipients,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "ledger: %s", err)
	}
	return disburse.Options{
		app.DeploymentConfig: dep,
		"sendtokens":         book,
	}, nil
}
