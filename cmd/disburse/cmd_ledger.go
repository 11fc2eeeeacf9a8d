package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/x/sendtokens"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Send the amount of tokens to every recipient. The total of amount times the
number of recipients is taken from the supply. Either all recipients are paid
or none.
		`)
		fl.PrintDefaults()
	}
	var (
		common   = addCommonFlags(fl)
		callerFl = flAccount(fl, "caller", "", "Account invoking the operation. Must be the ledger owner.")
		amountFl = fl.Uint64("amount", 0, "Amount of tokens each recipient receives.")
	)
	fl.Parse(args)

	return deliver(output, common, *callerFl, &sendtokens.SendTokensMsg{Amount: *amountFl})
}

func cmdAddRecipient(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Append an account to the list of recipients. An account can be added more
than once, in which case it is paid once for every occurrence.
		`)
		fl.PrintDefaults()
	}
	var (
		common      = addCommonFlags(fl)
		callerFl    = flAccount(fl, "caller", "", "Account invoking the operation. Must be the ledger owner.")
		recipientFl = flAccount(fl, "recipient", "", "Account to be added.")
	)
	fl.Parse(args)

	return deliver(output, common, *callerFl, &sendtokens.AddRecipientMsg{Recipient: recipientFl.String()})
}

func cmdRemoveRecipient(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Remove the first occurrence of an account from the list of recipients.
Removing an account that is not a recipient does nothing.
		`)
		fl.PrintDefaults()
	}
	var (
		common      = addCommonFlags(fl)
		callerFl    = flAccount(fl, "caller", "", "Account invoking the operation. Must be the ledger owner.")
		recipientFl = flAccount(fl, "recipient", "", "Account to be removed.")
	)
	fl.Parse(args)

	return deliver(output, common, *callerFl, &sendtokens.RemoveRecipientMsg{Recipient: recipientFl.String()})
}

// deliver processes the message on behalf of the caller and writes all
// audit lines it produced.
func deliver(output io.Writer, common commonFlags, caller disburse.AccountID, msg disburse.Msg) error {
	l, err := openLedger(*common.home, *common.debug)
	if err != nil {
		return err
	}
	defer l.Close()

	res, err := l.deliver(caller, msg)
	if err != nil {
		return err
	}
	for _, line := range res.Events {
		fmt.Fprintln(output, line)
	}
	return nil
}
