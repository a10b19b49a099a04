package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// Context key type
type contextKey string

const changeSetIDKey contextKey = "change_set_id"
const actorKey contextKey = "actor"

// WithChangeSetID adds the change-set id to the request context
func WithChangeSetID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, changeSetIDKey, id)
}

// GetChangeSetID retrieves the change-set id from the request context.
// Returns a fresh id when none was set, so callers outside the HTTP path
// (tests, scripts) still get a usable change-set. Call once per unit of
// work and thread the value through.
func GetChangeSetID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(changeSetIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.New()
}

// WithActor adds the acting user to the request context
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor retrieves the acting user from the request context
func GetActor(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok {
		return actor
	}
	return "anonymous"
}
