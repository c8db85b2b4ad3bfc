package procedurelog

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for the procedure history. Reads
// resolve the denormalized names alongside the row.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
