package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository runs the rollup queries. Nil date bounds impose no constraint.
type Repository interface {
	AppointmentsByMonth(ctx context.Context, start, end *time.Time) ([]MonthCount, error)
	UserCounts(ctx context.Context) (*UserCounts, error)
	ProceduresByType(ctx context.Context, start, end *time.Time) ([]TypeCount, error)
	PatientsBySpecies(ctx context.Context) ([]SpeciesCount, error)

	AppointmentsByStatus(ctx context.Context, vetID uuid.UUID, start, end *time.Time) ([]StatusCount, error)
	ProceduresPerformed(ctx context.Context, vetID uuid.UUID, start, end *time.Time) ([]TypeCount, error)
	MedicalRecordsCreated(ctx context.Context, vetID uuid.UUID, start, end *time.Time) (int64, error)
	PatientsAttended(ctx context.Context, vetID uuid.UUID, start, end *time.Time) ([]SpeciesCount, error)
}
