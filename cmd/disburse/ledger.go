package main

import (
	"os"
	"path/filepath"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/app"
	"github.com/iov-one/disburse/audit"
	"github.com/iov-one/disburse/errors"
	"github.com/iov-one/disburse/store/iavl"
	"github.com/iov-one/disburse/x/sendtokens"
	"github.com/iov-one/disburse/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	dataDir     = "data"
	dbName      = "disburse"
	genesisFile = "genesis.json"
)

// ledger bundles all resources of a ledger instance stored in a single home
// directory.
type ledger struct {
	*app.Host
	store iavl.CommitStore
	audit *audit.Store
}

// openLedger opens or creates the ledger stored in given home directory.
func openLedger(home string, debug bool) (*ledger, error) {
	if err := os.MkdirAll(filepath.Join(home, dataDir), 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create home: %s", err)
	}
	logger := newLogger(debug)

	db, err := iavl.NewCommitStore(filepath.Join(home, dataDir), dbName)
	if err != nil {
		return nil, err
	}
	trail, err := audit.Open(filepath.Join(home, audit.DefaultFile), logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	host, err := app.NewHost(db, stack(disburse.NewLogSink(logger)), queries(), initializers(), logger)
	if err != nil {
		trail.Close()
		db.Close()
		return nil, err
	}
	// The durable trail only receives lines of committed changes.
	host.SetAuditSink(trail)
	return &ledger{Host: host, store: db, audit: trail}, nil
}

// Close releases all resources.
func (l *ledger) Close() {
	l.audit.Close()
	l.store.Close()
}

// deliver runs the transaction and commits the result. Audit lines reach
// the trail during the commit.
func (l *ledger) deliver(caller disburse.AccountID, msg disburse.Msg) (*disburse.DeliverResult, error) {
	res, err := l.Deliver(caller, app.NewTx(msg))
	if err != nil {
		return nil, err
	}
	if _, err := l.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func newLogger(debug bool) log.Logger {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	if debug {
		return log.NewFilter(logger, log.AllowDebug())
	}
	return log.NewFilter(logger, log.AllowError())
}

// stack returns the handler processing all ledger messages.
func stack(sink disburse.EventSink) disburse.Handler {
	r := app.NewRouter()
	sendtokens.RegisterRoutes(r, sendtokens.ContextIdentity{}, sendtokens.DefaultValidator, sink)
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)
}

func queries() disburse.QueryRouter {
	qr := disburse.NewQueryRouter()
	qr.RegisterAll(sendtokens.RegisterQuery)
	return qr
}

func initializers() disburse.Initializer {
	return disburse.ChainInitializers(
		&sendtokens.Initializer{},
	)
}
