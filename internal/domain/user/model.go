// Package user manages clinic staff accounts and login. Staff deletion is
// logical: accounts are deactivated, never removed.
package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Role values a staff account may carry.
const (
	RoleVeterinarian = "veterinarian"
	RoleAssistant    = "assistant"
	RoleAdmin        = "admin"
)

// AllRoles lists the accepted role values.
var AllRoles = []string{RoleVeterinarian, RoleAssistant, RoleAdmin}

// ValidRole reports whether s is a recognized role value.
func ValidRole(s string) bool {
	for _, r := range AllRoles {
		if s == r {
			return true
		}
	}
	return false
}

// User is a staff account. The password hash never leaves the server.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	LicenseNumber *string   `json:"license_number"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateInput carries the fields accepted when registering a staff account.
// Accounts always start active.
type CreateInput struct {
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	LicenseNumber *string `json:"license_number"`
}

// UpdateInput carries the patchable fields. Only license_number is nullable;
// an explicit null on any other field is rejected.
type UpdateInput struct {
	Email         patch.Field[string] `json:"email"`
	Password      patch.Field[string] `json:"password"`
	Name          patch.Field[string] `json:"name"`
	Role          patch.Field[string] `json:"role"`
	LicenseNumber patch.Field[string] `json:"license_number"`
	IsActive      patch.Field[bool]   `json:"is_active"`
}

// Filter narrows user listings. Nil and zero values impose no constraint.
type Filter struct {
	Email         string
	Role          string
	LicenseNumber string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
