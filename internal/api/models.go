package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/service"
)

// RoleRef references a role by id in request bodies.
type RoleRef struct {
	UUID uuid.UUID `json:"uuid" validate:"required"`
}

func roleIDs(refs []RoleRef) []uuid.UUID {
	if refs == nil {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.UUID)
	}
	return ids
}

// passwordChange is embedded in update requests that may change a password.
type passwordChange struct {
	Password        *string `json:"password"         validate:"omitempty,min=8,max=72"`
	PasswordConfirm *string `json:"password_confirm"`
}

// mismatch reports whether a new password lacks a matching confirmation.
func (p passwordChange) mismatch() bool {
	if p.Password == nil {
		return false
	}
	return p.PasswordConfirm == nil || *p.PasswordConfirm != *p.Password
}

// CreateAdminRequest defines the payload for POST /admin.
type CreateAdminRequest struct {
	Identity        string    `json:"identity"         validate:"required,max=100"`
	Password        string    `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string    `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string    `json:"first_name"       validate:"max=255"`
	LastName        string    `json:"last_name"        validate:"max=255"`
	Status          string    `json:"status"           validate:"omitempty,oneof=active inactive"`
	Roles           []RoleRef `json:"roles"            validate:"omitempty,dive"`
}

func (req CreateAdminRequest) input() service.AdminInput {
	return service.AdminInput{
		Identity:  req.Identity,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    domain.AdminStatus(req.Status),
		RoleIDs:   roleIDs(req.Roles),
	}
}

// UpdateAdminRequest defines the payload for PATCH /admin/{uuid}.
type UpdateAdminRequest struct {
	passwordChange
	Identity  *string   `json:"identity"   validate:"omitempty,min=1,max=100"`
	FirstName *string   `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string   `json:"last_name"  validate:"omitempty,max=255"`
	Status    *string   `json:"status"     validate:"omitempty,oneof=active inactive"`
	Roles     []RoleRef `json:"roles"      validate:"omitempty,dive"`
}

func (req UpdateAdminRequest) update() service.AdminUpdate {
	u := service.AdminUpdate{
		Identity:  req.Identity,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleIDs:   roleIDs(req.Roles),
	}
	if req.Status != nil {
		status := domain.AdminStatus(*req.Status)
		u.Status = &status
	}
	return u
}

// UpdateMyAdminRequest defines the payload for PATCH /admin/my-account.
// Admins cannot change their own identity, status or roles.
type UpdateMyAdminRequest struct {
	passwordChange
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=255"`
}

func (req UpdateMyAdminRequest) update() service.AdminUpdate {
	return service.AdminUpdate{
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

// UserDetailRequest is the personal data part of user payloads.
type UserDetailRequest struct {
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name"  validate:"max=255"`
	Email     string `json:"email"      validate:"required,email,max=255"`
}

func (d UserDetailRequest) detail() domain.UserDetail {
	return domain.UserDetail{FirstName: d.FirstName, LastName: d.LastName, Email: d.Email}
}

// UserDetailUpdateRequest is the partial personal data part of user updates.
type UserDetailUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=255"`
	Email     *string `json:"email"      validate:"omitempty,email,max=255"`
}

func (d *UserDetailUpdateRequest) update() service.UserDetailUpdate {
	if d == nil {
		return service.UserDetailUpdate{}
	}
	return service.UserDetailUpdate{FirstName: d.FirstName, LastName: d.LastName, Email: d.Email}
}

// RegisterRequest defines the payload for POST /account/register.
type RegisterRequest struct {
	Identity        string            `json:"identity"         validate:"required,max=100"`
	Password        string            `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string            `json:"password_confirm" validate:"required,eqfield=Password"`
	Detail          UserDetailRequest `json:"detail"`
}

func (req RegisterRequest) input() service.UserInput {
	return service.UserInput{
		Identity: req.Identity,
		Password: req.Password,
		Detail:   req.Detail.detail(),
	}
}

// CreateUserRequest defines the payload for POST /user.
type CreateUserRequest struct {
	RegisterRequest
	Status string    `json:"status" validate:"omitempty,oneof=pending active"`
	Roles  []RoleRef `json:"roles"  validate:"omitempty,dive"`
}

func (req CreateUserRequest) input() service.UserInput {
	in := req.RegisterRequest.input()
	in.Status = domain.UserStatus(req.Status)
	in.RoleIDs = roleIDs(req.Roles)
	return in
}

// UpdateUserRequest defines the payload for PATCH /user/{uuid}.
type UpdateUserRequest struct {
	passwordChange
	Identity *string                  `json:"identity" validate:"omitempty,min=1,max=100"`
	Status   *string                  `json:"status"   validate:"omitempty,oneof=pending active"`
	Detail   *UserDetailUpdateRequest `json:"detail"`
	Roles    []RoleRef                `json:"roles"    validate:"omitempty,dive"`
}

func (req UpdateUserRequest) update() service.UserUpdate {
	u := service.UserUpdate{
		Identity: req.Identity,
		Password: req.Password,
		Detail:   req.Detail.update(),
		RoleIDs:  roleIDs(req.Roles),
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		u.Status = &status
	}
	return u
}

// UpdateMyAccountRequest defines the payload for PATCH /user/my-account.
type UpdateMyAccountRequest struct {
	passwordChange
	Detail *UserDetailUpdateRequest `json:"detail"`
}

func (req UpdateMyAccountRequest) update() service.UserUpdate {
	return service.UserUpdate{
		Password: req.Password,
		Detail:   req.Detail.update(),
	}
}

// EmailRequest defines the payload of the activation and identity recovery requests.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for POST /account/reset-password.
type ResetPasswordRequest struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Identity string `json:"identity" validate:"required_without=Email"`
}

// ModifyPasswordRequest defines the payload for PATCH /account/reset-password/{hash}.
type ModifyPasswordRequest struct {
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// ErrorReportRequest defines the payload for POST /error-report.
type ErrorReportRequest struct {
	Message string `json:"message" validate:"required"`
}
