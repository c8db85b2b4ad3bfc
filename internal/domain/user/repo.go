package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for staff accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error

	// GetByID returns the account regardless of its active flag; callers
	// that only serve active accounts filter on IsActive themselves.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetActiveByEmail is the login lookup. Deactivated accounts do not
	// match.
	GetActiveByEmail(ctx context.Context, email string) (*User, error)

	List(ctx context.Context, f Filter, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error)

	// Deactivate flips the active flag off. Reports NotFound when the
	// account is missing or already inactive.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// ExistsByEmail reports whether another account already uses the email.
	// excludeID skips the account being updated; pass uuid.Nil on create.
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}
