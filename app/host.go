package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
	"github.com/iov-one/disburse/gconf"
	"github.com/tendermint/tendermint/libs/log"
)

// Host runs a single ledger instance on top of a committing store. It
// serializes nothing itself: callers must not use a Host concurrently.
//
// Every delivered transaction is written to the working state, which becomes
// durable with Commit.
type Host struct {
	logger log.Logger

	// Database state
	store disburse.CommitKVStore

	// Code to process transactions
	handler disburse.Handler

	// How to handle queries
	queryRouter disburse.QueryRouter

	// Code to initialize from a genesis file
	initializer disburse.Initializer

	// deployment is loaded from db on start, saved once at genesis
	deployment *Deployment

	// baseContext contains context info that is valid for
	// lifetime of this host (eg. owner)
	baseContext disburse.Context

	// auditSink receives event lines once the state they describe is
	// committed. pending holds lines of delivered but not committed
	// transactions.
	auditSink disburse.EventSink
	pending   []string
}

// NewHost loads the latest state of the store and returns a host processing
// transactions with the handler. A nil logger discards all entries.
func NewHost(store disburse.CommitKVStore, handler disburse.Handler, queryRouter disburse.QueryRouter, initializer disburse.Initializer, logger log.Logger) (*Host, error) {
	if logger == nil {
		logger = disburse.DefaultLogger
	}
	h := &Host{
		logger:      logger,
		store:       store,
		handler:     handler,
		queryRouter: queryRouter,
		initializer: initializer,
	}
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}

	var dep Deployment
	switch err := gconf.Load(store, DeploymentConfig, &dep); {
	case errors.ErrNotFound.Is(err):
		logger.Info("No deployment found, waiting for genesis")
	case err != nil:
		return nil, errors.Wrap(err, "load deployment")
	default:
		h.setDeployment(&dep)
	}
	return h, nil
}

func (h *Host) setDeployment(dep *Deployment) {
	h.deployment = dep
	ctx := disburse.WithLogger(context.Background(), h.logger.With("owner", dep.Owner))
	h.baseContext = disburse.WithOwner(ctx, disburse.AccountID(dep.Owner))
}

// SetAuditSink sets the sink that receives event lines of delivered
// transactions. Lines are forwarded by Commit, after the state is persisted,
// so that the sink never holds a line for a change that was lost.
func (h *Host) SetAuditSink(sink disburse.EventSink) {
	h.auditSink = sink
}

// Initialized returns true once genesis was applied.
func (h *Host) Initialized() bool {
	return h.deployment != nil
}

// Owner returns the account the ledger is deployed under, or an empty
// identifier before genesis.
func (h *Host) Owner() disburse.AccountID {
	if h.deployment == nil {
		return ""
	}
	return disburse.AccountID(h.deployment.Owner)
}

// InitGenesis saves the deployment configuration, runs all initializers and
// commits the first version. Genesis can be applied only once.
func (h *Host) InitGenesis(opts disburse.Options) (disburse.CommitID, error) {
	if h.Initialized() {
		return disburse.CommitID{}, errors.Wrap(errors.ErrState, "genesis already applied")
	}

	cache := h.store.CacheWrap()
	var dep Deployment
	if err := gconf.InitConfig(cache, opts, DeploymentConfig, &dep); err != nil {
		cache.Discard()
		return disburse.CommitID{}, errors.Wrap(err, "deployment")
	}
	if h.initializer != nil {
		if err := h.initializer.FromGenesis(opts, cache); err != nil {
			cache.Discard()
			return disburse.CommitID{}, errors.Wrap(err, "initialize state")
		}
	}
	if err := cache.Write(); err != nil {
		return disburse.CommitID{}, errors.Wrap(err, "write genesis")
	}

	id, err := h.Commit()
	if err != nil {
		return id, err
	}
	h.setDeployment(&dep)
	h.logger.Info("Genesis applied", "owner", dep.Owner, "name", dep.Name, "height", id.Version)
	return id, nil
}

// context returns a context for a single transaction invoked by the caller.
func (h *Host) context(caller disburse.AccountID) (disburse.Context, error) {
	if !h.Initialized() {
		return nil, errors.Wrap(errors.ErrState, "genesis not applied")
	}
	latest, err := h.store.LatestVersion()
	if err != nil {
		return nil, errors.Wrap(err, "latest version")
	}
	ctx := disburse.WithHeight(h.baseContext, latest.Version+1)
	ctx = disburse.WithCaller(ctx, caller)
	return ctx, nil
}

// Check runs the transaction without changing the state.
func (h *Host) Check(caller disburse.AccountID, tx disburse.Tx) (*disburse.CheckResult, error) {
	ctx, err := h.context(caller)
	if err != nil {
		return nil, err
	}
	cache := h.store.CacheWrap()
	defer cache.Discard()
	return h.handler.Check(ctx, cache, tx)
}

// Deliver runs the transaction invoked by the caller and writes all changes
// to the working state. Nothing is written if the handler fails.
func (h *Host) Deliver(caller disburse.AccountID, tx disburse.Tx) (*disburse.DeliverResult, error) {
	ctx, err := h.context(caller)
	if err != nil {
		return nil, err
	}
	cache := h.store.CacheWrap()
	res, err := h.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write state")
	}
	if res != nil {
		h.pending = append(h.pending, res.Events...)
	}
	return res, nil
}

// Commit persists the working state as the next version and forwards all
// pending event lines to the audit sink. When the commit fails the lines are
// kept, as the working state still holds their changes.
func (h *Host) Commit() (disburse.CommitID, error) {
	id, err := h.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	if h.auditSink != nil {
		for _, line := range h.pending {
			h.auditSink.Record(line)
		}
	}
	h.pending = nil
	h.logger.Debug("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash),
	)
	return id, nil
}

/*
Query gets data from the store.

Path is the name of a registered query handler. It may be followed by
"?prefix" to make a prefix query. Data is interpreted by the handler.
*/
func (h *Host) Query(path string, data []byte) ([]disburse.Model, error) {
	path, mod := splitPath(path)
	qh := h.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", path)
	}
	db := h.store.CacheWrap()
	defer db.Discard()
	return qh.Query(db, mod, data)
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}
