package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResetPasswordStatus is the state of a password reset request.
type ResetPasswordStatus string

const (
	ResetPasswordRequested ResetPasswordStatus = "requested"
	ResetPasswordCompleted ResetPasswordStatus = "completed"
)

// UserResetPassword is a single-use password reset token issued to a user.
type UserResetPassword struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Hash      string
	Status    ResetPasswordStatus
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserResetPassword creates a requested reset that expires after lifetime.
func NewUserResetPassword(userID uuid.UUID, lifetime time.Duration, now time.Time) (*UserResetPassword, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}

	hash, err := GenerateHash()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &UserResetPassword{
		ID:        uuid.New(),
		UserID:    userID,
		Hash:      hash,
		Status:    ResetPasswordRequested,
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsCompleted reports whether the reset was already used.
func (r *UserResetPassword) IsCompleted() bool {
	return r.Status == ResetPasswordCompleted
}

// IsExpired reports whether the reset has expired at now.
func (r *UserResetPassword) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsValid reports whether the reset can still be used at now.
func (r *UserResetPassword) IsValid(now time.Time) bool {
	return !r.IsCompleted() && !r.IsExpired(now)
}

// Complete marks the reset as used.
func (r *UserResetPassword) Complete(now time.Time) {
	r.Status = ResetPasswordCompleted
	r.UpdatedAt = now.UTC()
}
