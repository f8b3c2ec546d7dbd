package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewUserResetPassword(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reset, err := NewUserResetPassword(uuid.New(), time.Hour, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if reset.Status != ResetPasswordRequested {
		t.Errorf("Expected requested status, got %s", reset.Status)
	}
	if !reset.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("Expected expiry one hour after creation, got %s", reset.ExpiresAt)
	}
	if !reset.IsValid(now.Add(59 * time.Minute)) {
		t.Error("Expected reset to be valid before expiry")
	}
	if reset.IsValid(now.Add(time.Hour)) {
		t.Error("Expected reset to be expired at the expiry instant")
	}

	reset.Complete(now)
	if !reset.IsCompleted() || reset.IsValid(now) {
		t.Error("Expected completed reset to be invalid")
	}
}

func TestNewUserResetPasswordRequiresUser(t *testing.T) {
	t.Parallel()

	_, err := NewUserResetPassword(uuid.Nil, time.Hour, time.Now())
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected %v, got %v", ErrInvalidID, err)
	}
}
