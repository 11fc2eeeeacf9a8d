package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".disburse"
	}
	return filepath.Join(home, ".disburse")
}

// commonFlags registers flags shared by all commands working with the ledger
// state.
type commonFlags struct {
	home  *string
	debug *bool
}

func addCommonFlags(fl *flag.FlagSet) commonFlags {
	return commonFlags{
		home:  fl.String("home", env("DISBURSE_HOME", defaultHome()), "Directory where the ledger state is stored. DISBURSE_HOME environment variable is used by default."),
		debug: fl.Bool("debug", false, "Log debug information."),
	}
}

// flAccount returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// The value is not validated, so that the ledger can decide how to handle a
// malformed account.
func flAccount(fl *flag.FlagSet, name, defaultVal, usage string) *disburse.AccountID {
	a := disburse.AccountID(defaultVal)
	fl.Var((*flagAccount)(&a), name, usage)
	return &a
}

type flagAccount disburse.AccountID

func (a flagAccount) String() string {
	return string(a)
}

func (a *flagAccount) Set(raw string) error {
	*a = flagAccount(strings.TrimSpace(raw))
	return nil
}

// flAccounts returns a list that is extended every time the flag is
// provided.
func flAccounts(fl *flag.FlagSet, name, usage string) *[]string {
	var list []string
	fl.Var((*flagList)(&list), name, usage)
	return &list
}

type flagList []string

func (l flagList) String() string {
	return strings.Join(l, ",")
}

func (l *flagList) Set(raw string) error {
	*l = append(*l, strings.TrimSpace(raw))
	return nil
}

// flagDie terminates the program when a flag validation has failed.
func flagDie(description string, args ...interface{}) {
	if !strings.HasSuffix(description, "\n") {
		description += "\n"
	}
	fmt.Fprintf(os.Stderr, description, args...)
	os.Exit(2)
}

// describe returns a human readable representation of the error together
// with its ABCI style code.
func describe(err error) string {
	code, log := errors.Info(err, false)
	return fmt.Sprintf("error %d: %s", code, log)
}
