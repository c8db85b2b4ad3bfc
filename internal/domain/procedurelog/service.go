package procedurelog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
)

// Service provides business logic for the procedure history.
type Service struct {
	entries Repository
}

// NewService creates a procedure history service.
func NewService(entries Repository) *Service {
	return &Service{entries: entries}
}

// today returns the current calendar day, for the not-in-the-past checks.
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) CreateEntry(ctx context.Context, in CreateInput) (*Entry, error) {
	var v validate.Violations
	if in.PatientID == uuid.Nil {
		v.Add("patient_id is required")
	}
	if in.ProcedureID == uuid.Nil {
		v.Add("procedure_id is required")
	}
	date, dateOK := v.Date("date", in.Date)
	if dateOK && date.Before(today()) {
		v.Add("date must not be in the past")
	}
	if in.NextDueDate != nil {
		next, nextOK := v.Date("next_due_date", *in.NextDueDate)
		if nextOK {
			if next.Before(today()) {
				v.Add("next_due_date must not be in the past")
			}
			if dateOK && next.Before(date) {
				v.Add("next_due_date must not precede date")
			}
		}
	}
	if in.Notes != nil {
		v.MaxLength("notes", *in.Notes, 1000)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	e := &Entry{
		PatientID:      in.PatientID,
		ProcedureID:    in.ProcedureID,
		VeterinarianID: in.VeterinarianID,
		Date:           in.Date,
		NextDueDate:    in.NextDueDate,
		Notes:          in.Notes,
	}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) ListEntries(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	return s.entries.List(ctx, f, limit, offset)
}

func (s *Service) UpdateEntry(ctx context.Context, id uuid.UUID, in UpdateInput) (*Entry, error) {
	var v validate.Violations

	if in.PatientID.IsNull() {
		v.NotRemovable("patient_id")
	}
	if in.ProcedureID.IsNull() {
		v.NotRemovable("procedure_id")
	}
	if in.Date.IsSet() && in.Date.IsNull() {
		v.NotRemovable("date")
	}
	if d, ok := in.Date.Value(); ok {
		v.Date("date", d)
	}
	if d, ok := in.NextDueDate.Value(); ok {
		v.Date("next_due_date", d)
	}
	if notes, ok := in.Notes.Value(); ok {
		v.MaxLength("notes", notes, 1000)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	current, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The ordering invariant holds over the merged values: a patch may move
	// either date as long as next_due_date does not end up before date.
	dateStr := current.Date
	if d, ok := in.Date.Value(); ok {
		dateStr = d
	}
	nextStr := current.NextDueDate
	if in.NextDueDate.IsSet() {
		nextStr = in.NextDueDate.Ptr()
	}
	if nextStr != nil {
		date, _ := time.Parse(validate.DateLayout, dateStr)
		next, _ := time.Parse(validate.DateLayout, *nextStr)
		if next.Before(date) {
			return nil, httperr.Validation("next_due_date must not precede date")
		}
	}

	return s.entries.Update(ctx, id, in)
}

func (s *Service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.entries.Delete(ctx, id)
}
