package stats

import (
	"context"

	"github.com/vetclinic/vetclinic/internal/domain/user"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
)

// Service assembles the overview appropriate for the requested role.
type Service struct {
	repo Repository
}

// NewService creates a statistics service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Overview computes the rollups for q. Administrators get the clinic-wide
// sections (optionally narrowed to one via q.Section), veterinarians get
// their own activity and assistants get an empty overview.
func (s *Service) Overview(ctx context.Context, q Query) (*Overview, error) {
	var v validate.Violations
	v.OneOf("role", q.Role, user.AllRoles)
	if q.Section != "" {
		v.OneOf("type", q.Section, Sections)
	}
	if q.Role == user.RoleVeterinarian && q.UserID == nil {
		v.Add("user_id is required for veterinarian statistics")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	out := &Overview{}
	switch q.Role {
	case user.RoleAdmin:
		if err := s.adminSections(ctx, q, out); err != nil {
			return nil, err
		}
	case user.RoleVeterinarian:
		vs, err := s.veterinarianStats(ctx, q)
		if err != nil {
			return nil, err
		}
		out.VeterinarianStats = vs
	case user.RoleAssistant:
		// assistants get no rollups
	}
	return out, nil
}

func (s *Service) adminSections(ctx context.Context, q Query, out *Overview) error {
	want := func(section string) bool { return q.Section == "" || q.Section == section }

	if want(SectionAppointments) {
		byMonth, err := s.repo.AppointmentsByMonth(ctx, q.StartDate, q.EndDate)
		if err != nil {
			return err
		}
		out.AppointmentsByMonth = byMonth
	}
	if want(SectionUsers) {
		counts, err := s.repo.UserCounts(ctx)
		if err != nil {
			return err
		}
		out.UserCounts = counts
	}
	if want(SectionProcedures) {
		byType, err := s.repo.ProceduresByType(ctx, q.StartDate, q.EndDate)
		if err != nil {
			return err
		}
		out.ProceduresByType = byType
	}
	if want(SectionPatients) {
		bySpecies, err := s.repo.PatientsBySpecies(ctx)
		if err != nil {
			return err
		}
		out.PatientsBySpecies = bySpecies
	}
	return nil
}

func (s *Service) veterinarianStats(ctx context.Context, q Query) (*VeterinarianStats, error) {
	vetID := *q.UserID

	byStatus, err := s.repo.AppointmentsByStatus(ctx, vetID, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	performed, err := s.repo.ProceduresPerformed(ctx, vetID, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.MedicalRecordsCreated(ctx, vetID, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	attended, err := s.repo.PatientsAttended(ctx, vetID, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}

	return &VeterinarianStats{
		AppointmentsByStatus:  byStatus,
		ProceduresPerformed:   performed,
		MedicalRecordsCreated: records,
		PatientsAttended:      attended,
	}, nil
}
