package breed

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for breeds.
type Repository interface {
	Create(ctx context.Context, b *Breed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Breed, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Breed, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Breed, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsBySpeciesAndName reports whether another breed already uses the
	// (species, name) pair, comparing names case-insensitively. excludeID
	// skips the breed being updated; pass uuid.Nil on create.
	ExistsBySpeciesAndName(ctx context.Context, species, name string, excludeID uuid.UUID) (bool, error)

	// CountPatients returns how many patients reference the breed.
	CountPatients(ctx context.Context, breedID uuid.UUID) (int, error)
}
