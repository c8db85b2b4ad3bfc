package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for appointments. Reads resolve the
// denormalized names alongside the row.
//
// HasOverlap reports whether the veterinarian already has an appointment
// intersecting [start, end) under closed-open semantics; excludeID, when
// non-nil, leaves one appointment out of the comparison so an update never
// conflicts with itself.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	HasOverlap(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
}
