package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/disburse"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and command line arguments
// except the program name and this command name. It is the responsibility of
// the command function to parse the arguments using the flag package.
//
// Commands changing the ledger commit the new state before returning, so
// that each invocation is a single atomic operation:
//
//   $ disburse init -owner owner.near -supply 100 -recipient alice.near
//   $ disburse send -caller owner.near -amount 10
//   $ disburse balance -account alice.near
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"add-recipient":    cmdAddRecipient,
	"audit":            cmdAudit,
	"balance":          cmdBalance,
	"init":             cmdInit,
	"recipients":       cmdRecipients,
	"remove-recipient": cmdRemoveRecipient,
	"send":             cmdSend,
	"supply":           cmdSupply,
	"version":          cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line interface for an owner controlled token ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, disburse.Version())
	return nil
}
