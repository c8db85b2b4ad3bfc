package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/domain/breed"
	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Service provides business logic for patients.
type Service struct {
	patients Repository
	breeds   BreedLookup
}

// NewService creates a patient service.
func NewService(patients Repository, breeds BreedLookup) *Service {
	return &Service{patients: patients, breeds: breeds}
}

func (s *Service) CreatePatient(ctx context.Context, in CreateInput) (*Patient, error) {
	in.Name = strings.TrimSpace(in.Name)

	var v validate.Violations
	v.StringLength("name", in.Name, 2, 100)
	v.OneOf("species", in.Species, breed.AllSpecies)
	if in.BirthDate != nil {
		v.Date("birth_date", *in.BirthDate)
	}
	if in.Gender != nil {
		v.OneOf("gender", *in.Gender, AllGenders)
	}
	if in.WeightKg != nil {
		v.Range("weight_kg", *in.WeightKg, 0.01, 999.99)
	}
	if in.PhotoURL != nil {
		v.URL("photo_url", *in.PhotoURL)
		v.MaxLength("photo_url", *in.PhotoURL, 512)
	}
	if in.ClientID == uuid.Nil {
		v.Add("client_id is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if in.BreedID != nil {
		if err := s.checkBreedSpecies(ctx, *in.BreedID, in.Species); err != nil {
			return nil, err
		}
	}

	p := &Patient{
		Name:      in.Name,
		Species:   in.Species,
		BreedID:   in.BreedID,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
		WeightKg:  in.WeightKg,
		ClientID:  in.ClientID,
		PhotoURL:  in.PhotoURL,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	var v validate.Violations
	if f.Species != "" {
		v.OneOf("species", f.Species, breed.AllSpecies)
	}
	if f.Gender != "" {
		v.OneOf("gender", f.Gender, AllGenders)
	}
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	return s.patients.List(ctx, f, limit, offset)
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	var v validate.Violations

	if in.Name.IsSet() {
		if in.Name.IsNull() {
			v.NotRemovable("name")
		} else {
			name, _ := in.Name.Value()
			name = strings.TrimSpace(name)
			in.Name = patch.NewValue(name)
			v.StringLength("name", name, 2, 100)
		}
	}
	if in.Species.IsSet() {
		if in.Species.IsNull() {
			v.NotRemovable("species")
		} else {
			sp, _ := in.Species.Value()
			v.OneOf("species", sp, breed.AllSpecies)
		}
	}
	if in.ClientID.IsNull() {
		v.NotRemovable("client_id")
	}
	if bd, ok := in.BirthDate.Value(); ok {
		v.Date("birth_date", bd)
	}
	if g, ok := in.Gender.Value(); ok {
		v.OneOf("gender", g, AllGenders)
	}
	if w, ok := in.WeightKg.Value(); ok {
		v.Range("weight_kg", w, 0.01, 999.99)
	}
	if u, ok := in.PhotoURL.Value(); ok {
		v.URL("photo_url", u)
		v.MaxLength("photo_url", u, 512)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	current, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-check breed compatibility with the merged species and breed, so a
	// species change cannot leave the patient on an incompatible breed.
	species := current.Species
	if sp, ok := in.Species.Value(); ok {
		species = sp
	}
	breedID := current.BreedID
	if in.BreedID.IsSet() {
		breedID = in.BreedID.Ptr()
	}
	if breedID != nil {
		if err := s.checkBreedSpecies(ctx, *breedID, species); err != nil {
			return nil, err
		}
	}

	return s.patients.Update(ctx, id, in)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) checkBreedSpecies(ctx context.Context, breedID uuid.UUID, species string) error {
	b, err := s.breeds.GetByID(ctx, breedID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return httperr.Validation("breed does not exist")
		}
		return err
	}
	if b.Species != species {
		return httperr.Validation("breed does not match the patient species")
	}
	return nil
}
