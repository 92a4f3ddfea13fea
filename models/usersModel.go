package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	RoleAdmin        = "admin"
	RoleDentist      = "dentist"
	RoleReceptionist = "receptionist"
	RoleFinance      = "finance"

	MinPasswordLength = 6
)

// Roles lists every valid user role.
var Roles = []any{RoleAdmin, RoleDentist, RoleReceptionist, RoleFinance}

// User is a staff account. Users are never hard-deleted.
type User struct {
	ID           string    `gorm:"primaryKey;column:id" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"password_hash,omitempty"`
	Role         string    `gorm:"column:role;not null" json:"role"`
	Active       bool      `gorm:"column:active;type:boolean;not null" json:"active"`
	LastAccessAt *DateTime `gorm:"column:last_access_at;type:timestamptz" json:"last_access_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile is the public view of a user, without credentials.
type UserProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	LastAccessAt *DateTime `json:"last_access_at"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Active:       u.Active,
		LastAccessAt: u.LastAccessAt,
	}
}

// NormalizeEmail lower-cases and trims an e-mail address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUserInput is the payload for creating a user.
type NewUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in NewUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(MinPasswordLength, 0)),
		validation.Field(&in.Role, validation.Required, validation.In(Roles...).Error("invalid role")),
	)
}

// UserUpdateInput is a partial update of a user by an administrator.
type UserUpdateInput struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

func (in UserUpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&in.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&in.Role, validation.NilOrNotEmpty, validation.In(Roles...).Error("invalid role")),
	)
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

// ChangePasswordInput is used by a signed-in user to rotate their password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (in ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CurrentPassword, validation.Required),
		validation.Field(&in.NewPassword, validation.Required, validation.Length(MinPasswordLength, 0)),
	)
}

// ResetPasswordInput completes a password reset with an e-mailed code.
type ResetPasswordInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (in ResetPasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Code, validation.Required.Error("invalid reset code")),
		validation.Field(&in.NewPassword, validation.Required, validation.Length(MinPasswordLength, 0)),
	)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   DateTime    `json:"expires_at"`
	User        UserProfile `json:"user"`
}
