package patient

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/domain/breed"
	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// =========== Mock Repositories ===========

type mockPatientRepo struct {
	store map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{store: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	stored := *p
	m.store[p.ID] = &stored
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, httperr.NotFound("patient")
	}
	out := *p
	return &out, nil
}

func (m *mockPatientRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	for _, p := range m.store {
		if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Species != "" && p.Species != f.Species {
			continue
		}
		if f.ClientID != nil && p.ClientID != *f.ClientID {
			continue
		}
		if f.BreedID != nil && (p.BreedID == nil || *p.BreedID != *f.BreedID) {
			continue
		}
		if f.Gender != "" && (p.Gender == nil || *p.Gender != f.Gender) {
			continue
		}
		out := *p
		items = append(items, &out)
	}
	return items, len(items), nil
}

func (m *mockPatientRepo) Update(_ context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, httperr.NotFound("patient")
	}
	if v, ok := in.Name.Value(); ok {
		p.Name = v
	}
	if v, ok := in.Species.Value(); ok {
		p.Species = v
	}
	if in.BreedID.IsSet() {
		p.BreedID = in.BreedID.Ptr()
	}
	if in.BirthDate.IsSet() {
		p.BirthDate = in.BirthDate.Ptr()
	}
	if in.Gender.IsSet() {
		p.Gender = in.Gender.Ptr()
	}
	if in.WeightKg.IsSet() {
		p.WeightKg = in.WeightKg.Ptr()
	}
	if v, ok := in.ClientID.Value(); ok {
		p.ClientID = v
	}
	if in.PhotoURL.IsSet() {
		p.PhotoURL = in.PhotoURL.Ptr()
	}
	out := *p
	return &out, nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return httperr.NotFound("patient")
	}
	delete(m.store, id)
	return nil
}

type mockBreedLookup struct {
	store map[uuid.UUID]*breed.Breed
}

func (m *mockBreedLookup) GetByID(_ context.Context, id uuid.UUID) (*breed.Breed, error) {
	b, ok := m.store[id]
	if !ok {
		return nil, httperr.NotFound("breed")
	}
	out := *b
	return &out, nil
}

// =========== Helpers ===========

func newTestService() (*Service, *mockPatientRepo, *mockBreedLookup) {
	repo := newMockPatientRepo()
	breeds := &mockBreedLookup{store: make(map[uuid.UUID]*breed.Breed)}
	return NewService(repo, breeds), repo, breeds
}

func addBreed(breeds *mockBreedLookup, species, name string) uuid.UUID {
	id := uuid.New()
	breeds.store[id] = &breed.Breed{ID: id, Species: species, Name: name}
	return id
}

func validCreate() CreateInput {
	return CreateInput{Name: "Rex", Species: breed.SpeciesDog, ClientID: uuid.New()}
}

// =========== Tests ===========

func TestCreatePatient_Success(t *testing.T) {
	svc, _, _ := newTestService()
	in := validCreate()
	p, err := svc.CreatePatient(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
	if p.Name != "Rex" || p.Species != breed.SpeciesDog || p.ClientID != in.ClientID {
		t.Fatalf("unexpected patient: %+v", p)
	}
}

func TestCreatePatient_RoundTrip(t *testing.T) {
	svc, _, breeds := newTestService()
	breedID := addBreed(breeds, breed.SpeciesDog, "Labrador")
	birth := "2020-03-15"
	gender := GenderMale
	weight := 24.5
	photo := "https://example.com/rex.jpg"

	in := CreateInput{
		Name:      "Rex",
		Species:   breed.SpeciesDog,
		BreedID:   &breedID,
		BirthDate: &birth,
		Gender:    &gender,
		WeightKg:  &weight,
		ClientID:  uuid.New(),
		PhotoURL:  &photo,
	}
	p, err := svc.CreatePatient(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetPatient(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got.BreedID != breedID || *got.BirthDate != birth || *got.Gender != gender ||
		*got.WeightKg != weight || *got.PhotoURL != photo {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}

func TestCreatePatient_CollectsAllViolations(t *testing.T) {
	svc, _, _ := newTestService()
	weight := -1.0
	_, err := svc.CreatePatient(context.Background(), CreateInput{
		Name:     "R",
		Species:  "dragon",
		WeightKg: &weight,
	})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var apiErr *httperr.Error
	errors.As(err, &apiErr)
	// name, species, weight_kg and the missing client_id.
	if len(apiErr.Violations) != 4 {
		t.Fatalf("expected 4 violations, got %v", apiErr.Violations)
	}
}

func TestCreatePatient_BreedSpeciesMismatch(t *testing.T) {
	svc, _, breeds := newTestService()
	catBreed := addBreed(breeds, breed.SpeciesCat, "Siamese")

	in := validCreate()
	in.BreedID = &catBreed
	_, err := svc.CreatePatient(context.Background(), in)
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePatient_UnknownBreed(t *testing.T) {
	svc, _, _ := newTestService()
	missing := uuid.New()
	in := validCreate()
	in.BreedID = &missing
	_, err := svc.CreatePatient(context.Background(), in)
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePatient_ClearWeight(t *testing.T) {
	svc, _, _ := newTestService()
	weight := 12.0
	in := validCreate()
	in.WeightKg = &weight
	p, err := svc.CreatePatient(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdatePatient(context.Background(), p.ID, UpdateInput{WeightKg: patch.NewNull[float64]()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeightKg != nil {
		t.Fatalf("expected cleared weight, got %v", *got.WeightKg)
	}
}

func TestUpdatePatient_NullNameRejected(t *testing.T) {
	svc, _, _ := newTestService()
	p, err := svc.CreatePatient(context.Background(), validCreate())
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.UpdatePatient(context.Background(), p.ID, UpdateInput{Name: patch.NewNull[string]()})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, _ := svc.GetPatient(context.Background(), p.ID)
	if got.Name != "Rex" {
		t.Fatalf("rejected patch must not change the name, got %q", got.Name)
	}
}

func TestUpdatePatient_EmptyPatchIsNoop(t *testing.T) {
	svc, _, _ := newTestService()
	p, err := svc.CreatePatient(context.Background(), validCreate())
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdatePatient(context.Background(), p.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != p.Name || got.Species != p.Species || got.ClientID != p.ClientID {
		t.Fatalf("empty patch changed the patient: %+v", got)
	}
}

func TestUpdatePatient_SpeciesChangeChecksBreed(t *testing.T) {
	svc, _, breeds := newTestService()
	dogBreed := addBreed(breeds, breed.SpeciesDog, "Labrador")

	in := validCreate()
	in.BreedID = &dogBreed
	p, err := svc.CreatePatient(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	// Switching species while the dog breed stays attached must fail.
	_, err = svc.UpdatePatient(context.Background(), p.ID, UpdateInput{Species: patch.NewValue(breed.SpeciesCat)})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Clearing the breed in the same patch makes it valid.
	got, err := svc.UpdatePatient(context.Background(), p.ID, UpdateInput{
		Species: patch.NewValue(breed.SpeciesCat),
		BreedID: patch.NewNull[uuid.UUID](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Species != breed.SpeciesCat || got.BreedID != nil {
		t.Fatalf("unexpected patient after patch: %+v", got)
	}
}

func TestListPatients_FilterBySpecies(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.CreatePatient(context.Background(), validCreate()); err != nil {
		t.Fatal(err)
	}
	cat := validCreate()
	cat.Name = "Misu"
	cat.Species = breed.SpeciesCat
	if _, err := svc.CreatePatient(context.Background(), cat); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.ListPatients(context.Background(), Filter{Species: breed.SpeciesCat}, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "Misu" {
		t.Fatalf("unexpected listing: total=%d items=%+v", total, items)
	}
}

func TestListPatients_InvalidGenderFilter(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.ListPatients(context.Background(), Filter{Gender: "none"}, 50, 0)
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeletePatient_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.DeletePatient(context.Background(), uuid.New())
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
