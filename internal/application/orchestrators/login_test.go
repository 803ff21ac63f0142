package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"arcagym/internal/domain/account"
)

func seedAccount(t *testing.T, store *mockAccountStore, email, password string) {
	t.Helper()
	a := account.Account{ID: "a-1", Email: email, Role: account.RoleAdmin, CreatedAt: time.Now()}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	store.accounts[email] = a
}

func TestLogin_Success(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "admin@arcagym.com.ar", "correct-horse-battery")

	result, err := ExecuteLogin(context.Background(),
		LoginInput{Email: "admin@arcagym.com.ar", Password: "correct-horse-battery"},
		LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Role != account.RoleAdmin {
		t.Errorf("Role = %s, want admin", result.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "admin@arcagym.com.ar", "correct-horse-battery")

	_, err := ExecuteLogin(context.Background(),
		LoginInput{Email: "admin@arcagym.com.ar", Password: "wrong"},
		LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.accounts["admin@arcagym.com.ar"].FailedLogins != 1 {
		t.Error("failed attempt should be recorded")
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "admin@arcagym.com.ar", "correct-horse-battery")
	deps := LoginDeps{AccountStore: store}

	for i := 0; i < 5; i++ {
		_, _ = ExecuteLogin(context.Background(),
			LoginInput{Email: "admin@arcagym.com.ar", Password: "wrong"}, deps)
	}

	_, err := ExecuteLogin(context.Background(),
		LoginInput{Email: "admin@arcagym.com.ar", Password: "correct-horse-battery"}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := newMockAccountStore()

	_, err := ExecuteLogin(context.Background(),
		LoginInput{Email: "nobody@arcagym.com.ar", Password: "whatever"},
		LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
