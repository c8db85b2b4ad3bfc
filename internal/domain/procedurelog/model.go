// Package procedurelog manages the per-patient procedure history: which
// procedure was performed on which pet, by whom, and when the next one is
// due.
package procedurelog

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Entry is one performed procedure in a patient's history. The *Name fields
// are denormalized from the referenced rows for responses and are never
// written directly.
type Entry struct {
	ID               uuid.UUID  `json:"id"`
	PatientID        uuid.UUID  `json:"patient_id"`
	PatientName      string     `json:"patient_name"`
	ProcedureID      uuid.UUID  `json:"procedure_id"`
	ProcedureName    string     `json:"procedure_name"`
	VeterinarianID   *uuid.UUID `json:"veterinarian_id"`
	VeterinarianName *string    `json:"veterinarian_name"`
	Date             string     `json:"date"`
	NextDueDate      *string    `json:"next_due_date"`
	Notes            *string    `json:"notes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateInput carries the fields accepted when recording a procedure.
// Dates use YYYY-MM-DD.
type CreateInput struct {
	PatientID      uuid.UUID  `json:"patient_id"`
	ProcedureID    uuid.UUID  `json:"procedure_id"`
	VeterinarianID *uuid.UUID `json:"veterinarian_id"`
	Date           string     `json:"date"`
	NextDueDate    *string    `json:"next_due_date"`
	Notes          *string    `json:"notes"`
}

// UpdateInput carries the patchable fields. Veterinarian, next due date and
// notes accept an explicit null to clear; patient, procedure and date do not.
type UpdateInput struct {
	PatientID      patch.Field[uuid.UUID] `json:"patient_id"`
	ProcedureID    patch.Field[uuid.UUID] `json:"procedure_id"`
	VeterinarianID patch.Field[uuid.UUID] `json:"veterinarian_id"`
	Date           patch.Field[string]    `json:"date"`
	NextDueDate    patch.Field[string]    `json:"next_due_date"`
	Notes          patch.Field[string]    `json:"notes"`
}

// Filter narrows history listings. Nil values impose no constraint; the date
// bounds are inclusive.
type Filter struct {
	PatientID      *uuid.UUID
	ProcedureID    *uuid.UUID
	VeterinarianID *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
}
