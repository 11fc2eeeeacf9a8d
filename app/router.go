package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]disburse.Handler
}

var _ disburse.Registry = (*Router)(nil)
var _ disburse.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]disburse.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if
// another Handler was already registered or the path is not valid.
func (r *Router) Handle(path string, h disburse.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is found,
// returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *Router) Handler(path string) disburse.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path: path}
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx) (*disburse.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	return r.Handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx) (*disburse.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	return r.Handler(msg.Path()).Deliver(ctx, store, tx)
}

// IsNoSuchPathErr returns true if the error was caused by a message without
// a registered handler.
func IsNoSuchPathErr(err error) bool {
	return errors.ErrNotFound.Is(err)
}

// noSuchPathHandler returns an error for every message
type noSuchPathHandler struct {
	path string
}

var _ disburse.Handler = noSuchPathHandler{}

// Check always returns ErrNotFound
func (h noSuchPathHandler) Check(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx) (*disburse.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

// Deliver always returns ErrNotFound
func (h noSuchPathHandler) Deliver(ctx disburse.Context, store disburse.KVStore, tx disburse.Tx) (*disburse.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
