package medicalrecord

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Service provides business logic for medical records.
type Service struct {
	records Repository
}

// NewService creates a medical record service.
func NewService(records Repository) *Service {
	return &Service{records: records}
}

func (s *Service) CreateRecord(ctx context.Context, in CreateInput) (*Record, error) {
	in.Diagnosis = strings.TrimSpace(in.Diagnosis)

	var v validate.Violations
	if in.PatientID == uuid.Nil {
		v.Add("patient_id is required")
	}
	if in.VeterinarianID == uuid.Nil {
		v.Add("veterinarian_id is required")
	}
	v.StringLength("diagnosis", in.Diagnosis, 5, 2000)
	if in.Treatment != nil {
		v.MaxLength("treatment", *in.Treatment, 2000)
	}
	if in.Notes != nil {
		v.MaxLength("notes", *in.Notes, 2000)
	}
	if in.WeightAtVisit != nil {
		v.Range("weight_at_visit", *in.WeightAtVisit, 0.01, 999.99)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	rec := &Record{
		PatientID:      in.PatientID,
		VeterinarianID: in.VeterinarianID,
		Diagnosis:      in.Diagnosis,
		Treatment:      in.Treatment,
		Notes:          in.Notes,
		WeightAtVisit:  in.WeightAtVisit,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, f Filter, limit, offset int) ([]*Record, int, error) {
	return s.records.List(ctx, f, limit, offset)
}

func (s *Service) UpdateRecord(ctx context.Context, id uuid.UUID, in UpdateInput) (*Record, error) {
	var v validate.Violations

	if in.PatientID.IsNull() {
		v.NotRemovable("patient_id")
	}
	if in.VeterinarianID.IsNull() {
		v.NotRemovable("veterinarian_id")
	}
	if in.Diagnosis.IsSet() {
		if in.Diagnosis.IsNull() {
			v.NotRemovable("diagnosis")
		} else {
			diag, _ := in.Diagnosis.Value()
			diag = strings.TrimSpace(diag)
			in.Diagnosis = patch.NewValue(diag)
			v.StringLength("diagnosis", diag, 5, 2000)
		}
	}
	if tr, ok := in.Treatment.Value(); ok {
		v.MaxLength("treatment", tr, 2000)
	}
	if notes, ok := in.Notes.Value(); ok {
		v.MaxLength("notes", notes, 2000)
	}
	if w, ok := in.WeightAtVisit.Value(); ok {
		v.Range("weight_at_visit", w, 0.01, 999.99)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	return s.records.Update(ctx, id, in)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.records.Delete(ctx, id)
}
