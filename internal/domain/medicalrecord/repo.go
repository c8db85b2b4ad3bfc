package medicalrecord

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for medical records. Reads resolve
// the denormalized names alongside the row.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Record, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
