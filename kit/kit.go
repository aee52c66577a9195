// Package kit holds the small transport-agnostic plumbing shared by the
// scribe tool surfaces: the Endpoint function shape, middleware chaining,
// and the MCP tool adapter.
package kit

import "context"

// Endpoint is the transport-agnostic request handler shape. Every MCP
// tool and HTTP handler eventually calls one of these.
type Endpoint func(ctx context.Context, request any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares left to right: the first argument is the
// outermost wrapper.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
