package procedure

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for the procedure catalog.
type Repository interface {
	Create(ctx context.Context, p *Procedure) error
	GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Procedure, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Procedure, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
