// Package medicalrecord manages clinical visit records: a diagnosis made by
// a veterinarian for a patient, with optional treatment notes and the weight
// measured at the visit.
package medicalrecord

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Record is one clinical visit. Date is assigned by the store at creation.
// The *Name fields are denormalized for responses and never written
// directly.
type Record struct {
	ID               uuid.UUID `json:"id"`
	PatientID        uuid.UUID `json:"patient_id"`
	PatientName      string    `json:"patient_name"`
	VeterinarianID   uuid.UUID `json:"veterinarian_id"`
	VeterinarianName string    `json:"veterinarian_name"`
	Date             time.Time `json:"date"`
	Diagnosis        string    `json:"diagnosis"`
	Treatment        *string   `json:"treatment"`
	Notes            *string   `json:"notes"`
	WeightAtVisit    *float64  `json:"weight_at_visit"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateInput carries the fields accepted when recording a visit.
type CreateInput struct {
	PatientID      uuid.UUID `json:"patient_id"`
	VeterinarianID uuid.UUID `json:"veterinarian_id"`
	Diagnosis      string    `json:"diagnosis"`
	Treatment      *string   `json:"treatment"`
	Notes          *string   `json:"notes"`
	WeightAtVisit  *float64  `json:"weight_at_visit"`
}

// UpdateInput carries the patchable fields. Treatment, notes and weight
// accept an explicit null to clear; patient, veterinarian and diagnosis do
// not.
type UpdateInput struct {
	PatientID      patch.Field[uuid.UUID] `json:"patient_id"`
	VeterinarianID patch.Field[uuid.UUID] `json:"veterinarian_id"`
	Diagnosis      patch.Field[string]    `json:"diagnosis"`
	Treatment      patch.Field[string]    `json:"treatment"`
	Notes          patch.Field[string]    `json:"notes"`
	WeightAtVisit  patch.Field[float64]   `json:"weight_at_visit"`
}

// Filter narrows record listings. Nil and zero values impose no constraint;
// the date bounds are inclusive.
type Filter struct {
	PatientID         *uuid.UUID
	VeterinarianID    *uuid.UUID
	StartDate         *time.Time
	EndDate           *time.Time
	DiagnosisContains string
}
