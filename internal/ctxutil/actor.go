// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// CallerKey is the context key for the participant issuing a command.
type CallerKey struct{}

// RequestKey is the context key for the per-event request ID.
type RequestKey struct{}

// WithCallerID returns a context with the caller's participant ID embedded.
func WithCallerID(ctx context.Context, callerID int64) context.Context {
	return context.WithValue(ctx, CallerKey{}, callerID)
}

// CallerFromContext returns the caller ID from context, or 0 if not set.
func CallerFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(CallerKey{}).(int64); ok {
		return v
	}
	return 0
}

// WithRequestID returns a context carrying the request ID used in log fields.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestKey{}, requestID)
}

// RequestFromContext returns the request ID from context, or empty string if not set.
func RequestFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestKey{}).(string); ok {
		return v
	}
	return ""
}
