package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/domain/breed"
)

// Repository is the persistence contract for patients. Reads resolve the
// breed name alongside the row.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BreedLookup is the slice of the breed catalog the patient service needs
// for species-compatibility checks.
type BreedLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*breed.Breed, error)
}
