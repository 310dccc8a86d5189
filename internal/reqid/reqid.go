// Package reqid carries a correlation id through a request's context.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Header is the header used to pass the id between services.
const Header = "X-Request-ID"

func FromContext(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// New returns a fresh random id.
func New() string {
	return uuid.NewString()
}
