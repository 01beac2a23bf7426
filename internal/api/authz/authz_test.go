package authz

import (
	"context"
	"errors"
	"testing"
)

func TestRequireAdminUnauthenticated(t *testing.T) {
	err := RequireAdmin(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireAdminForbidden(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 10, Role: RoleUser})
	err := RequireAdmin(ctx)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireAdminAllowed(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 10, Role: RoleAdmin})
	if err := RequireAdmin(ctx); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRequireSelfOrAdminUnauthenticated(t *testing.T) {
	err := RequireSelfOrAdmin(context.Background(), 7)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireSelfOrAdminOwner(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 7, Role: RoleUser})
	if err := RequireSelfOrAdmin(ctx, 7); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRequireSelfOrAdminStrangerForbidden(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 8, Role: RoleUser})
	err := RequireSelfOrAdmin(ctx, 7)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireSelfOrAdminAdminAllowed(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 1, Role: RoleAdmin})
	if err := RequireSelfOrAdmin(ctx, 7); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	if err := RequireAuthenticated(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 7, Role: RoleUser})
	if err := RequireAuthenticated(ctx); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestUserFromContextWrongType(t *testing.T) {
	if user := UserFromContext(context.Background()); user != nil {
		t.Fatalf("expected nil, got %+v", user)
	}
	if IsAdmin(nil) {
		t.Fatal("nil user is not an admin")
	}
}
