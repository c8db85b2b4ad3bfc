package breed

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Service provides business logic for the breed catalog.
type Service struct {
	breeds Repository
}

// NewService creates a breed service.
func NewService(breeds Repository) *Service {
	return &Service{breeds: breeds}
}

func (s *Service) CreateBreed(ctx context.Context, in CreateInput) (*Breed, error) {
	in.Name = strings.TrimSpace(in.Name)

	var v validate.Violations
	v.StringLength("name", in.Name, 3, 50)
	v.OneOf("species", in.Species, AllSpecies)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// Pre-check for a friendly error; the unique index remains the authority
	// under concurrent creates.
	exists, err := s.breeds.ExistsBySpeciesAndName(ctx, in.Species, in.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.Conflict("breed already exists")
	}

	b := &Breed{Species: in.Species, Name: in.Name}
	if err := s.breeds.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBreed(ctx context.Context, id uuid.UUID) (*Breed, error) {
	return s.breeds.GetByID(ctx, id)
}

func (s *Service) ListBreeds(ctx context.Context, f Filter, limit, offset int) ([]*Breed, int, error) {
	var v validate.Violations
	if f.Species != "" {
		v.OneOf("species", f.Species, AllSpecies)
	}
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	return s.breeds.List(ctx, f, limit, offset)
}

func (s *Service) UpdateBreed(ctx context.Context, id uuid.UUID, in UpdateInput) (*Breed, error) {
	var v validate.Violations

	if in.Name.IsSet() {
		if in.Name.IsNull() {
			v.NotRemovable("name")
		} else {
			name, _ := in.Name.Value()
			name = strings.TrimSpace(name)
			in.Name = patch.NewValue(name)
			v.StringLength("name", name, 3, 50)
		}
	}
	if in.Species.IsSet() {
		if in.Species.IsNull() {
			v.NotRemovable("species")
		} else {
			sp, _ := in.Species.Value()
			v.OneOf("species", sp, AllSpecies)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	current, err := s.breeds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	species := current.Species
	if sp, ok := in.Species.Value(); ok {
		species = sp
	}
	name := current.Name
	if n, ok := in.Name.Value(); ok {
		name = n
	}
	if species != current.Species || !strings.EqualFold(name, current.Name) {
		exists, err := s.breeds.ExistsBySpeciesAndName(ctx, species, name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, httperr.Conflict("breed already exists")
		}
	}

	return s.breeds.Update(ctx, id, in)
}

func (s *Service) DeleteBreed(ctx context.Context, id uuid.UUID) error {
	if _, err := s.breeds.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.breeds.CountPatients(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.Conflict("breed has registered patients")
	}
	return s.breeds.Delete(ctx, id)
}
