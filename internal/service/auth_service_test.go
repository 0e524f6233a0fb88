package service

import (
	"context"
	"testing"
	"time"

	"notesync-server/internal/domain"
)

func newTestAuthService() (*AuthService, *mockUserRepo, *mockStore) {
	users := newMockUserRepo()
	store := newMockStore()
	svc := NewAuthService(users, store, "test-secret", 15*time.Minute, 24*time.Hour)
	return svc, users, store
}

func TestAuthService_Register(t *testing.T) {
	svc, users, store := newTestAuthService()

	req := &domain.RegisterRequest{
		Username:  "sally",
		Email:     "sally@example.com",
		Password:  "password123",
		FirstName: "Sally",
	}

	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	user, err := users.FindByUsername(context.Background(), "sally")
	if err != nil {
		t.Fatalf("expected user to exist, got %v", err)
	}
	if user.ID == "" {
		t.Error("expected user ID to be generated")
	}
	if user.Password == "password123" {
		t.Error("expected password to be hashed")
	}

	// Registration must also seed the revision ledger.
	rev, err := store.GetRevision(context.Background(), "sally")
	if err != nil {
		t.Fatalf("expected sync profile to exist, got %v", err)
	}
	if rev != 0 {
		t.Errorf("expected initial revision 0, got %d", rev)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, users, _ := newTestAuthService()
	users.Create(context.Background(), &domain.User{Username: "taken", Email: "sally@example.com"})

	err := svc.Register(context.Background(), &domain.RegisterRequest{
		Username: "sally",
		Email:    "sally@example.com",
		Password: "password123",
	})
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, users, _ := newTestAuthService()
	users.Create(context.Background(), &domain.User{Username: "sally", Email: "other@example.com"})

	err := svc.Register(context.Background(), &domain.RegisterRequest{
		Username: "sally",
		Email:    "sally@example.com",
		Password: "password123",
	})
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if err := svc.Register(context.Background(), &domain.RegisterRequest{
		Username: "sally",
		Email:    "sally@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "sally@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if resp.User.Password != "" {
		t.Error("expected password cleared from response")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if err := svc.Register(context.Background(), &domain.RegisterRequest{
		Username: "sally",
		Email:    "sally@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "sally@example.com",
		Password: "wrong-password",
	}); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if err := svc.Register(context.Background(), &domain.RegisterRequest{
		Username: "sally",
		Email:    "sally@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	login, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "sally@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	resp, err := svc.RefreshToken(context.Background(), &domain.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected a new access token")
	}

	if _, err := svc.RefreshToken(context.Background(), &domain.RefreshTokenRequest{
		RefreshToken: "not-a-token",
	}); err == nil {
		t.Fatal("expected error for invalid refresh token")
	}
}
