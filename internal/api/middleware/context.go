package middleware

import "context"

// contextKey is a custom type for keys local to this middleware package.
type contextKey string

// Context keys local to this middleware package
const (
	RequestIDKey contextKey = "request_id"
)

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
