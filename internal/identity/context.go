package identity

import "context"

// Role identifies what an authenticated actor is allowed to do.
type Role string

const (
	// RoleCustomer is an anonymous or self-identified visitor. Customers can
	// only submit appointment requests and read public content.
	RoleCustomer Role = "customer"
	// RoleStaff can manage appointments, working hours and catalog entries.
	RoleStaff Role = "staff"
)

// Actor is the caller identity attached to each request.
type Actor struct {
	Subject string
	Role    Role
}

// IsStaff reports whether the actor may perform staff-only operations.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

type ctxKey string

const actorKey ctxKey = "salon.actor"

// WithActor stores the actor in context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the actor if present.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	val := ctx.Value(actorKey)
	if val == nil {
		return Actor{}, false
	}
	actor, ok := val.(Actor)
	return actor, ok && actor.Role != ""
}
