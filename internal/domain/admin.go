package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminStatus is the activation state of an admin account.
type AdminStatus string

const (
	AdminStatusActive   AdminStatus = "active"
	AdminStatusInactive AdminStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s AdminStatus) Valid() bool {
	return s == AdminStatusActive || s == AdminStatusInactive
}

// Admin is a back-office account authenticated through the admin client.
type Admin struct {
	ID             uuid.UUID   `json:"id"`
	Identity       string      `json:"identity"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Password       string      `json:"-"` // Plaintext, only set while creating or changing the password
	HashedPassword string      `json:"-"`
	Status         AdminStatus `json:"status"`
	Roles          []Role      `json:"roles"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewAdmin creates an active admin. The caller must hash Password before storage.
func NewAdmin(identity, password, firstName, lastName string, roles []Role) (*Admin, error) {
	now := time.Now().UTC()
	admin := &Admin{
		ID:        uuid.New(),
		Identity:  identity,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
		Status:    AdminStatusActive,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := admin.Validate(); err != nil {
		return nil, err
	}

	return admin, nil
}

// Validate checks if the Admin has valid data.
func (a *Admin) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := validateIdentity(a.Identity); err != nil {
		return NewValidationError("identity", "is invalid", err)
	}
	if a.Password != "" {
		if err := ValidatePassword(a.Password); err != nil {
			return NewValidationError("password", "is invalid", err)
		}
	} else if a.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrEmptyPassword)
	}
	if !a.Status.Valid() {
		return NewValidationError("status", "is invalid", ErrInvalidStatus)
	}
	if len(a.Roles) == 0 {
		return NewValidationError("roles", "cannot be empty", ErrNoRoles)
	}
	return nil
}

// IsActive reports whether the admin may authenticate.
func (a *Admin) IsActive() bool {
	return a.Status == AdminStatusActive
}
