package memory

import (
	"context"
	"errors"
	"testing"

	domainuser "wayfare/internal/domain/user"
)

func newUser(t *testing.T, id, email string) *domainuser.User {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Name:         "Ana",
		Email:        email,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("user.New: %v", err)
	}
	return u
}

func TestUserSaveRetiresOldEmailKey(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := newUser(t, "u1", "ana@example.com")
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	u.Email = "ana.new@example.com"
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save after email change: %v", err)
	}

	if _, err := repo.ByEmail(ctx, "ana@example.com"); !errors.Is(err, domainuser.ErrNotFound) {
		t.Fatalf("old email must not resolve, got %v", err)
	}
	got, err := repo.ByEmail(ctx, "ana.new@example.com")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if got.ID != "u1" {
		t.Fatalf("ByEmail returned %s, want u1", got.ID)
	}

	// The freed address is claimable by another account.
	if err := repo.Save(ctx, newUser(t, "u2", "ana@example.com")); err != nil {
		t.Fatalf("Save of freed email: %v", err)
	}
}

func TestUserSaveRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	if err := repo.Save(ctx, newUser(t, "u1", "ana@example.com")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err := repo.Save(ctx, newUser(t, "u2", "Ana@Example.com"))
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}
