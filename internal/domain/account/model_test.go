package account

import (
	"testing"
	"time"
)

// TestValidate tests account validation rules.
func TestValidate(t *testing.T) {
	a := Account{ID: "a-1", Email: "staff@elarcagym.com.ar", Role: RoleTrainer}
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	a.Email = ""
	if err := a.Validate(); err != ErrEmptyEmail {
		t.Errorf("expected ErrEmptyEmail, got %v", err)
	}

	a.Email = "no-at-sign"
	if err := a.Validate(); err != ErrInvalidEmail {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}

	a.Email = "staff@elarcagym.com.ar"
	a.Role = "member"
	if err := a.Validate(); err != ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

// TestPasswordRoundTrip tests hashing and verification.
func TestPasswordRoundTrip(t *testing.T) {
	a := Account{ID: "a-1", Email: "staff@elarcagym.com.ar", Role: RoleAdmin}

	if err := a.SetPassword("short"); err != ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}

	if err := a.SetPassword("una clave bien larga"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.CheckPassword("una clave bien larga"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := a.CheckPassword("otra clave"); err != ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestLockout tests the failed-login lockout threshold.
func TestLockout(t *testing.T) {
	a := Account{ID: "a-1", Email: "staff@elarcagym.com.ar", Role: RoleAdmin}
	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked before fifth failure")
	}
	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after fifth failure")
	}
	if time.Until(a.LockedUntil) > 15*time.Minute {
		t.Error("lockout longer than 15 minutes")
	}
	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Error("reset did not clear lockout")
	}
}
