package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/x/sendtokens"
)

func cmdRecipients(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print all recipients, one per line, in the order they are paid.
		`)
		fl.PrintDefaults()
	}
	common := addCommonFlags(fl)
	fl.Parse(args)

	models, err := query(common, "sendtokens/recipients", nil)
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Fprintln(output, string(m.Value))
	}
	return nil
}

func cmdSupply(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the amount of tokens left for distribution.
		`)
		fl.PrintDefaults()
	}
	common := addCommonFlags(fl)
	fl.Parse(args)

	models, err := query(common, "sendtokens/supply", nil)
	if err != nil {
		return err
	}
	for _, m := range models {
		supply, err := sendtokens.DecodeUint64(m.Value)
		if err != nil {
			return err
		}
		fmt.Fprintln(output, supply)
	}
	return nil
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the balance of an account. When no account is given, print balances of
all accounts that ever received tokens.
		`)
		fl.PrintDefaults()
	}
	var (
		common    = addCommonFlags(fl)
		accountFl = flAccount(fl, "account", "", "Account to print the balance of.")
	)
	fl.Parse(args)

	path, data := "sendtokens/balances", []byte(*accountFl)
	if len(data) == 0 {
		path += "?" + disburse.PrefixQueryMod
	}
	models, err := query(common, path, data)
	if err != nil {
		return err
	}
	for _, m := range models {
		balance, err := sendtokens.DecodeUint64(m.Value)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			fmt.Fprintf(output, "%s\t%d\n", m.Key, balance)
		} else {
			fmt.Fprintln(output, balance)
		}
	}
	return nil
}

func cmdAudit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the audit trail of all successful token transfers, oldest first.
		`)
		fl.PrintDefaults()
	}
	var (
		common = addCommonFlags(fl)
		timeFl = fl.Bool("time", false, "Prefix each line with the time it was recorded.")
	)
	fl.Parse(args)

	l, err := openLedger(*common.home, *common.debug)
	if err != nil {
		return err
	}
	defer l.Close()

	entries, err := l.audit.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if *timeFl {
			fmt.Fprintf(output, "%s\t%s\n", e.CreatedAt.Format("2006-01-02T15:04:05.000Z"), e.Message)
		} else {
			fmt.Fprintln(output, e.Message)
		}
	}
	return nil
}

func query(common commonFlags, path string, data []byte) ([]disburse.Model, error) {
	l, err := openLedger(*common.home, *common.debug)
	if err != nil {
		return nil, err
	}
	defer l.Close()
	return l.Query(path, data)
}
