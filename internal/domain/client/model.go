// Package client manages pet owners, their contact details and the staff
// member assigned to look after them.
package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Client is a pet owner.
type Client struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email"`
	Phone      string     `json:"phone"`
	Address    *string    `json:"address"`
	Notes      *string    `json:"notes"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateInput carries the fields accepted when registering a client.
type CreateInput struct {
	Name       string     `json:"name"`
	Email      *string    `json:"email"`
	Phone      string     `json:"phone"`
	Address    *string    `json:"address"`
	Notes      *string    `json:"notes"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

// UpdateInput carries the patchable fields. Address, notes and assigned_to
// accept an explicit null to clear; name, phone and email do not.
type UpdateInput struct {
	Name       patch.Field[string]    `json:"name"`
	Email      patch.Field[string]    `json:"email"`
	Phone      patch.Field[string]    `json:"phone"`
	Address    patch.Field[string]    `json:"address"`
	Notes      patch.Field[string]    `json:"notes"`
	AssignedTo patch.Field[uuid.UUID] `json:"assigned_to"`
}

// Filter narrows client listings. Zero values impose no constraint.
type Filter struct {
	Name       string
	Phone      string
	AssignedTo *uuid.UUID
}
