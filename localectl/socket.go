package localectl

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/polyglot/pkg/translate"
)

// CallOptions are the options resolved for one socket call or endpoint
// invocation. SocketStage fills T.
type CallOptions struct {
	// Ctx scopes session lookups; context.Background when nil.
	Ctx context.Context
	// Request is the handshake request of the socket; the session cookie is
	// read from it and verified when the controller signs cookies.
	Request *http.Request
	// SessionID overrides the session cookie.
	SessionID string
	// User is the authenticated user of the socket, if any.
	User translate.User

	// T translates key for this call.
	T func(key string, opts translate.Options) string
}

// SocketStage returns the option resolution stage for socket calls. The
// installed T uses the language recorded for the socket session when there
// is one, and otherwise the helper's resolution (explicit language, user
// language, fallback).
func (ctl *Controller) SocketStage() func(opts *CallOptions) {
	return func(opts *CallOptions) {
		ctx := opts.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		sid := opts.SessionID
		if sid == "" {
			sid = ctl.sessionID(opts.Request)
		}
		user := opts.User

		opts.T = func(key string, o translate.Options) string {
			if lang := ctl.sessions.Lookup(ctx, sid); lang != "" {
				o.Lang = lang
			}
			return ctl.helper.Translate(user, key, o)
		}
	}
}

// ResolveCallOptions applies SocketStage to a fresh CallOptions for r.
func (ctl *Controller) ResolveCallOptions(r *http.Request, user translate.User) *CallOptions {
	opts := &CallOptions{Ctx: r.Context(), Request: r, User: user}
	ctl.SocketStage()(opts)
	return opts
}
