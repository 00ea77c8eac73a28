// Package trace carries a per-turn correlation ID through a context so every
// log line emitted while handling one console line can be grouped.
package trace

import (
	"context"

	"github.com/google/uuid"
)

type turnKey struct{}

// NewTurnID returns a fresh turn ID such as "turn_3f2a...".
func NewTurnID() string {
	return "turn_" + uuid.NewString()[:8]
}

// WithTurnID returns a child context carrying id.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnKey{}, id)
}

// FromContext returns the turn ID in ctx, or "" if there is none.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(turnKey{}).(string); ok {
		return v
	}
	return ""
}

// Start attaches a new turn ID to ctx and returns both.
func Start(ctx context.Context) (context.Context, string) {
	id := NewTurnID()
	return WithTurnID(ctx, id), id
}
