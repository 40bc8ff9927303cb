package identity

import (
	"context"
	"testing"
)

func TestWithActorAndActorFromContext(t *testing.T) {
	ctx := context.Background()
	ctx = WithActor(ctx, Actor{Subject: "merve@salon.example", Role: RoleStaff})

	got, ok := ActorFromContext(ctx)
	if !ok {
		t.Fatalf("expected actor to be present")
	}
	if got.Subject != "merve@salon.example" {
		t.Fatalf("expected subject, got %s", got.Subject)
	}
	if !got.IsStaff() {
		t.Fatalf("expected staff role")
	}
}

func TestActorFromContext_EmptyOrMissing(t *testing.T) {
	ctx := context.Background()
	if _, ok := ActorFromContext(ctx); ok {
		t.Fatalf("expected missing actor to return false")
	}

	ctx = context.WithValue(ctx, actorKey, "not an actor")
	if _, ok := ActorFromContext(ctx); ok {
		t.Fatalf("expected non-actor value to return false")
	}

	ctx = WithActor(context.Background(), Actor{})
	if _, ok := ActorFromContext(ctx); ok {
		t.Fatalf("expected roleless actor to return false")
	}
}

func TestCustomerIsNotStaff(t *testing.T) {
	a := Actor{Subject: "visitor", Role: RoleCustomer}
	if a.IsStaff() {
		t.Fatalf("customer must not pass staff check")
	}
}
