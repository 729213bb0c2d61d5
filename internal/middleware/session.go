package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionIDKey is the context key for the caller's split session ID.
const SessionIDKey contextKey = "session_id"

// SessionHeader carries the session ID on every receipt RPC.
const SessionHeader = "Billscan-Session"

// GetSessionID extracts the session ID from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// WithSessionID returns a copy of ctx carrying id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// SessionInterceptor copies the Billscan-Session header into the request
// context. Requests without the header pass through; handlers that need a
// session reject them.
func SessionInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := strings.TrimSpace(req.Header().Get(SessionHeader)); id != "" {
				ctx = WithSessionID(ctx, id)
			}
			return next(ctx, req)
		}
	}
}
