// Package scheduling manages appointment booking: time-range conflict
// detection per veterinarian, the appointment status lifecycle and the
// deletion guards around it.
package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Appointment statuses. Every appointment starts out scheduled; the other
// states are reached only through an explicit update.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusNoShow    = "no_show"
)

// Statuses lists the accepted status values.
var Statuses = []string{StatusScheduled, StatusCompleted, StatusCanceled, StatusNoShow}

// Appointment is one booked time slot on a veterinarian's calendar. Patient
// and client are optional so walk-ins can be booked before intake. The *Name
// fields and DurationMinutes are derived for responses and never written
// directly.
type Appointment struct {
	ID               uuid.UUID  `json:"id"`
	PatientID        *uuid.UUID `json:"patient_id"`
	PatientName      *string    `json:"patient_name"`
	ClientID         *uuid.UUID `json:"client_id"`
	ClientName       *string    `json:"client_name"`
	VeterinarianID   uuid.UUID  `json:"veterinarian_id"`
	VeterinarianName string     `json:"veterinarian_name"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          time.Time  `json:"end_time"`
	Status           string     `json:"status"`
	Reason           string     `json:"reason"`
	DurationMinutes  int        `json:"duration_minutes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Enrich fills the derived duration from the stored time pair.
func (a *Appointment) Enrich() {
	a.DurationMinutes = int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

// CreateInput carries the fields accepted when booking an appointment. The
// status is not accepted: new appointments are always scheduled.
type CreateInput struct {
	PatientID      *uuid.UUID `json:"patient_id"`
	ClientID       *uuid.UUID `json:"client_id"`
	VeterinarianID uuid.UUID  `json:"veterinarian_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        time.Time  `json:"end_time"`
	Reason         string     `json:"reason"`
}

// UpdateInput carries the patchable fields. Patient and client accept an
// explicit null to detach; the remaining fields can only be replaced.
type UpdateInput struct {
	PatientID      patch.Field[uuid.UUID] `json:"patient_id"`
	ClientID       patch.Field[uuid.UUID] `json:"client_id"`
	VeterinarianID patch.Field[uuid.UUID] `json:"veterinarian_id"`
	StartTime      patch.Field[time.Time] `json:"start_time"`
	EndTime        patch.Field[time.Time] `json:"end_time"`
	Status         patch.Field[string]    `json:"status"`
	Reason         patch.Field[string]    `json:"reason"`
}

// Filter narrows appointment listings. Nil and zero values impose no
// constraint; the date bounds are inclusive and apply to the start time.
type Filter struct {
	PatientID      *uuid.UUID
	ClientID       *uuid.UUID
	VeterinarianID *uuid.UUID
	Status         string
	StartDate      *time.Time
	EndDate        *time.Time
	ReasonContains string
}
