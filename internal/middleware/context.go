package middleware

import (
	"context"

	"github.com/bookora/be-booking-access/internal/access"
)

type contextKey string

const (
	contextActor        contextKey = "actor"
	contextCapabilities contextKey = "capabilities"
	contextRequestID    contextKey = "requestID"
)

// ActorFrom returns the authenticated actor snapshot, if any.
func ActorFrom(ctx context.Context) (*access.Actor, bool) {
	actor, ok := ctx.Value(contextActor).(*access.Actor)
	return actor, ok
}

// CapabilitiesFrom returns the capability set resolved for the request.
// Unauthenticated requests get the zero set.
func CapabilitiesFrom(ctx context.Context) access.CapabilitySet {
	caps, ok := ctx.Value(contextCapabilities).(access.CapabilitySet)
	if !ok {
		return access.CapabilitySet{}
	}
	return caps
}

// RequestIDFrom returns the request correlation id.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextRequestID).(string)
	return id
}

func withIdentity(ctx context.Context, actor *access.Actor, caps access.CapabilitySet) context.Context {
	ctx = context.WithValue(ctx, contextActor, actor)
	return context.WithValue(ctx, contextCapabilities, caps)
}
