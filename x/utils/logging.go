package utils

import (
	"time"

	"github.com/iov-one/disburse"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ disburse.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx, next disburse.Checker) (*disburse.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, disburse.GetPath(tx), resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx, next disburse.Deliverer) (*disburse.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, disburse.GetPath(tx), resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx disburse.Context, start time.Time, path, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := disburse.GetLogger(ctx).With("path", path, "duration", delta/time.Microsecond)

	if caller, ok := disburse.GetCaller(ctx); ok {
		logger = logger.With("caller", caller)
	}
	if err != nil {
		logger = logger.With("err", err)
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.

	if err != nil {
		logger.Error(msg)
	} else {
		if lowPrio {
			logger.Debug(msg)
		} else {
			logger.Info(msg)
		}
	}
}
