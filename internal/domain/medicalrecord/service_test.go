package medicalrecord

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// =========== Mock Repository ===========

type mockRecordRepo struct {
	store map[uuid.UUID]*Record
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{store: make(map[uuid.UUID]*Record)}
}

func (m *mockRecordRepo) Create(_ context.Context, rec *Record) error {
	rec.ID = uuid.New()
	rec.Date = time.Now()
	rec.PatientName = "Rex"
	rec.VeterinarianName = "Dr. Vet"
	stored := *rec
	m.store[rec.ID] = &stored
	return nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	rec, ok := m.store[id]
	if !ok {
		return nil, httperr.NotFound("medical record")
	}
	out := *rec
	return &out, nil
}

func (m *mockRecordRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Record, int, error) {
	var items []*Record
	for _, rec := range m.store {
		if f.PatientID != nil && rec.PatientID != *f.PatientID {
			continue
		}
		if f.VeterinarianID != nil && rec.VeterinarianID != *f.VeterinarianID {
			continue
		}
		if f.DiagnosisContains != "" && !strings.Contains(strings.ToLower(rec.Diagnosis), strings.ToLower(f.DiagnosisContains)) {
			continue
		}
		out := *rec
		items = append(items, &out)
	}
	return items, len(items), nil
}

func (m *mockRecordRepo) Update(_ context.Context, id uuid.UUID, in UpdateInput) (*Record, error) {
	rec, ok := m.store[id]
	if !ok {
		return nil, httperr.NotFound("medical record")
	}
	if v, ok := in.PatientID.Value(); ok {
		rec.PatientID = v
	}
	if v, ok := in.VeterinarianID.Value(); ok {
		rec.VeterinarianID = v
	}
	if v, ok := in.Diagnosis.Value(); ok {
		rec.Diagnosis = v
	}
	if in.Treatment.IsSet() {
		rec.Treatment = in.Treatment.Ptr()
	}
	if in.Notes.IsSet() {
		rec.Notes = in.Notes.Ptr()
	}
	if in.WeightAtVisit.IsSet() {
		rec.WeightAtVisit = in.WeightAtVisit.Ptr()
	}
	out := *rec
	return &out, nil
}

func (m *mockRecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return httperr.NotFound("medical record")
	}
	delete(m.store, id)
	return nil
}

// =========== Helpers ===========

func newTestService() (*Service, *mockRecordRepo) {
	repo := newMockRecordRepo()
	return NewService(repo), repo
}

func validCreate() CreateInput {
	return CreateInput{
		PatientID:      uuid.New(),
		VeterinarianID: uuid.New(),
		Diagnosis:      "Otitis externa, left ear",
	}
}

// =========== Tests ===========

func TestCreateRecord_Success(t *testing.T) {
	svc, _ := newTestService()
	rec, err := svc.CreateRecord(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
	if rec.Date.IsZero() {
		t.Fatal("expected a server-assigned date")
	}
}

func TestCreateRecord_CollectsAllViolations(t *testing.T) {
	svc, _ := newTestService()
	weight := 1500.0
	_, err := svc.CreateRecord(context.Background(), CreateInput{
		Diagnosis:     "sick",
		WeightAtVisit: &weight,
	})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var apiErr *httperr.Error
	errors.As(err, &apiErr)
	// patient_id, veterinarian_id, diagnosis, weight_at_visit.
	if len(apiErr.Violations) != 4 {
		t.Fatalf("expected 4 violations, got %v", apiErr.Violations)
	}
}

func TestUpdateRecord_ClearTreatment(t *testing.T) {
	svc, _ := newTestService()
	treatment := "ear drops twice daily"
	in := validCreate()
	in.Treatment = &treatment
	rec, err := svc.CreateRecord(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateRecord(context.Background(), rec.ID, UpdateInput{
		Treatment: patch.NewNull[string](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Treatment != nil {
		t.Fatalf("expected cleared treatment, got %q", *got.Treatment)
	}
}

func TestUpdateRecord_NullDiagnosisRejected(t *testing.T) {
	svc, _ := newTestService()
	rec, err := svc.CreateRecord(context.Background(), validCreate())
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.UpdateRecord(context.Background(), rec.ID, UpdateInput{
		Diagnosis: patch.NewNull[string](),
	})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, _ := svc.GetRecord(context.Background(), rec.ID)
	if got.Diagnosis != rec.Diagnosis {
		t.Fatalf("rejected patch must not change the diagnosis, got %q", got.Diagnosis)
	}
}

func TestUpdateRecord_EmptyPatchIsNoop(t *testing.T) {
	svc, _ := newTestService()
	rec, err := svc.CreateRecord(context.Background(), validCreate())
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateRecord(context.Background(), rec.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Diagnosis != rec.Diagnosis || got.PatientID != rec.PatientID {
		t.Fatalf("empty patch changed the record: %+v", got)
	}
}

func TestListRecords_FilterByDiagnosis(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.CreateRecord(context.Background(), validCreate()); err != nil {
		t.Fatal(err)
	}
	other := validCreate()
	other.Diagnosis = "Fractured femur"
	if _, err := svc.CreateRecord(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.ListRecords(context.Background(), Filter{DiagnosisContains: "otitis"}, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("unexpected listing: total=%d", total)
	}
}
