package procedure

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Service provides business logic for the procedure catalog.
type Service struct {
	procedures Repository
}

// NewService creates a procedure service.
func NewService(procedures Repository) *Service {
	return &Service{procedures: procedures}
}

func (s *Service) CreateProcedure(ctx context.Context, in CreateInput) (*Procedure, error) {
	in.Name = strings.TrimSpace(in.Name)

	var v validate.Violations
	v.StringLength("name", in.Name, 2, 100)
	v.OneOf("procedure_type", in.ProcedureType, AllTypes)
	if in.Description != nil {
		v.MaxLength("description", *in.Description, 500)
	}
	if in.DurationMinutes != nil {
		v.IntRange("duration_minutes", *in.DurationMinutes, 1, 1440)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	p := &Procedure{
		Name:            in.Name,
		ProcedureType:   in.ProcedureType,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
	}
	if err := s.procedures.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProcedure(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return s.procedures.GetByID(ctx, id)
}

func (s *Service) ListProcedures(ctx context.Context, f Filter, limit, offset int) ([]*Procedure, int, error) {
	var v validate.Violations
	if f.ProcedureType != "" {
		v.OneOf("procedure_type", f.ProcedureType, AllTypes)
	}
	if f.MinDuration != nil && f.MaxDuration != nil && *f.MinDuration > *f.MaxDuration {
		v.Add("min_duration must not exceed max_duration")
	}
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	return s.procedures.List(ctx, f, limit, offset)
}

func (s *Service) UpdateProcedure(ctx context.Context, id uuid.UUID, in UpdateInput) (*Procedure, error) {
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
	if in.ProcedureType.IsSet() {
		if in.ProcedureType.IsNull() {
			v.NotRemovable("procedure_type")
		} else {
			pt, _ := in.ProcedureType.Value()
			v.OneOf("procedure_type", pt, AllTypes)
		}
	}
	if desc, ok := in.Description.Value(); ok {
		v.MaxLength("description", desc, 500)
	}
	if d, ok := in.DurationMinutes.Value(); ok {
		v.IntRange("duration_minutes", d, 1, 1440)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	return s.procedures.Update(ctx, id, in)
}

func (s *Service) DeleteProcedure(ctx context.Context, id uuid.UUID) error {
	return s.procedures.Delete(ctx, id)
}
