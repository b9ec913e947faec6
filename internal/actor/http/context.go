// Package http provides the actor and token endpoints together with the authentication and
// authorization middleware every protected route runs behind.
package http

import (
	"context"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
)

// actorKey is a context key type for storing authenticated actors.
type actorKey struct{}

// WithActor stores an authenticated actor in the context.
func WithActor(ctx context.Context, actor *actorDomain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor retrieves the authenticated actor from the context.
// Returns (actor, true) if an actor is present, or (nil, false) otherwise.
func GetActor(ctx context.Context) (*actorDomain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(*actorDomain.Actor)
	return actor, ok
}
