// Package requestcontext carries request-scoped identity through context so
// handlers and services agree on a single extraction point.
package requestcontext

import "context"

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyUsername
)

// WithRequestID attaches a correlation ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestID returns the correlation ID, or "" when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// WithUsername attaches the authenticated local username to the context.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, keyUsername, username)
}

// Username returns the authenticated local username, or "" when the request
// is anonymous.
func Username(ctx context.Context) string {
	u, _ := ctx.Value(keyUsername).(string)
	return u
}
