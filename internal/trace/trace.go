// Package trace carries a per-request trace ID through the context and
// over the wire so log lines from one grant evaluation correlate.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// Header is the request/response header carrying the trace ID.
const Header = "X-Trace-Id"

type ctxKey struct{}

func NewID() string {
	return uuid.NewString()
}

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the trace ID on ctx, or empty outside a traced request.
func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
