package disburse

import (
	"context"
	"fmt"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

type contextKey int // local to the disburse module

const (
	contextKeyLogger contextKey = iota
	contextKeyCaller
	contextKeyOwner
	contextKeyHeight
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithLogger sets the logger for this context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	if ctx == nil {
		return DefaultLogger
	}
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithCaller sets the account that invokes the current operation. A caller
// is set per transaction, so unlike the owner it can be replaced.
func WithCaller(ctx Context, caller AccountID) Context {
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// GetCaller returns the account invoking the current operation. If no caller
// is set, ok is false.
func GetCaller(ctx Context) (AccountID, bool) {
	if ctx == nil {
		return "", false
	}
	val, ok := ctx.Value(contextKeyCaller).(AccountID)
	return val, ok
}

// WithOwner sets the account the ledger instance is deployed under.
// Panics if the owner is already set, as the deployment identity must not
// change during the lifetime of an instance.
func WithOwner(ctx Context, owner AccountID) Context {
	if cur, ok := GetOwner(ctx); ok {
		panic(fmt.Sprintf("owner already set: %q", cur))
	}
	return context.WithValue(ctx, contextKeyOwner, owner)
}

// GetOwner returns the account the ledger instance is deployed under.
func GetOwner(ctx Context) (AccountID, bool) {
	if ctx == nil {
		return "", false
	}
	val, ok := ctx.Value(contextKeyOwner).(AccountID)
	return val, ok
}

// WithHeight sets the version of the state that is currently being built.
// Panics if the height is already set.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("height already set")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the version of the state that is currently being built.
func GetHeight(ctx Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}
