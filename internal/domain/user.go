package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusDeleted UserStatus = "deleted"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusDeleted:
		return true
	}
	return false
}

// UserDetail holds the optional personal data of a user.
type UserDetail struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// User is a frontend account.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Identity       string     `json:"identity"`
	Password       string     `json:"-"` // Plaintext, only set while creating or changing the password
	HashedPassword string     `json:"-"`
	Status         UserStatus `json:"status"`
	Hash           string     `json:"-"` // Activation token
	Detail         UserDetail `json:"detail"`
	Roles          []Role     `json:"roles"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a pending user with a fresh activation hash.
// The caller must hash Password before storage.
func NewUser(identity, password string, detail UserDetail, roles []Role) (*User, error) {
	hash, err := GenerateHash()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Identity:  identity,
		Password:  password,
		Status:    UserStatusPending,
		Hash:      hash,
		Detail:    detail,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := validateIdentity(u.Identity); err != nil {
		return NewValidationError("identity", "is invalid", err)
	}
	if u.Detail.Email != "" {
		if err := validateEmail(u.Detail.Email); err != nil {
			return NewValidationError("email", "is invalid", err)
		}
	}
	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return NewValidationError("password", "is invalid", err)
		}
	} else if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrEmptyPassword)
	}
	if !u.Status.Valid() {
		return NewValidationError("status", "is invalid", ErrInvalidStatus)
	}
	if len(u.Roles) == 0 {
		return NewValidationError("roles", "cannot be empty", ErrNoRoles)
	}
	return nil
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsDeleted reports whether the user was soft-deleted.
func (u *User) IsDeleted() bool {
	return u.Status == UserStatusDeleted
}

// Activate marks the user active.
func (u *User) Activate() {
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now().UTC()
}

// MarkDeleted soft-deletes the user and anonymises its personal data so the
// identity and email can be reused.
func (u *User) MarkDeleted() {
	placeholder := fmt.Sprintf("anonymous-%s", u.ID)
	u.Status = UserStatusDeleted
	u.Identity = placeholder
	u.Detail = UserDetail{Email: placeholder + "@deleted.invalid"}
	u.UpdatedAt = time.Now().UTC()
}
