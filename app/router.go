package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and
// then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]revshare.Handler
}

var _ revshare.Registry = (*Router)(nil)
var _ revshare.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]revshare.Handler),
	}
}

// Handle adds a new Handler for the given message path. Registering a
// path twice or an invalid path panics.
func (r *Router) Handle(msg revshare.Msg, h revshare.Handler) {
	path := msg.Path()
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	if !isPath(path) {
		panic(fmt.Sprintf("Invalid path: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *Router) handler(m revshare.Msg) revshare.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(revshare.Context, revshare.KVStore, revshare.Tx) (*revshare.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(revshare.Context, revshare.KVStore, revshare.Tx) (*revshare.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
