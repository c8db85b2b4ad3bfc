package client

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for clients.
type Repository interface {
	Create(ctx context.Context, cl *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Client, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Client, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByEmail reports whether another client already uses the email,
	// ignoring the row identified by excludeID.
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)

	// CountPatients reports how many patients reference the client.
	CountPatients(ctx context.Context, clientID uuid.UUID) (int, error)
}
