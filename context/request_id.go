// Package context provides context utilities for request tracking
package context

import (
	stdctx "context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = iota
	// UserIDKey is the context key for the chat user a request belongs to
	UserIDKey
)

// NewRequestID generates a new unique request ID
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID adds a request ID to the context
func WithRequestID(parent stdctx.Context, requestID string) stdctx.Context {
	return stdctx.WithValue(parent, RequestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context
func RequestIDFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithUserID tags the context with the user the request is served for
func WithUserID(parent stdctx.Context, userID int64) stdctx.Context {
	return stdctx.WithValue(parent, UserIDKey, userID)
}

// UserIDFromContext returns the user id and whether one was set
func UserIDFromContext(ctx stdctx.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// NewRequest returns a context carrying a fresh request ID and the user ID.
func NewRequest(parent stdctx.Context, userID int64) stdctx.Context {
	return WithUserID(WithRequestID(parent, NewRequestID()), userID)
}
