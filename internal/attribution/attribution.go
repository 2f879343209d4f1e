// Package attribution carries the acting user on a context so that stores
// and services can stamp created_by and updated_by without knowing how the
// caller was identified.
package attribution

import (
	"context"
	"strings"
)

// SystemActor is recorded when no actor was supplied, e.g. for records
// created by startup reconciliation.
const SystemActor = "system"

type actorKey struct{}

// WithActor returns a copy of ctx attributed to actor. Blank actors are ignored.
func WithActor(ctx context.Context, actor string) context.Context {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor on ctx, or SystemActor.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return SystemActor
}
