// Package stats produces role-scoped rollups over the clinic's data:
// clinic-wide counts for administrators and per-veterinarian activity for
// veterinarians.
package stats

import (
	"time"

	"github.com/google/uuid"
)

// Sections an administrator may request individually. An empty section
// selects all of them.
const (
	SectionAppointments = "appointments"
	SectionUsers        = "users"
	SectionProcedures   = "procedures"
	SectionPatients     = "patients"
)

// Sections lists the accepted section values.
var Sections = []string{SectionAppointments, SectionUsers, SectionProcedures, SectionPatients}

// Query selects which rollups to compute. The date range, where a rollup
// honors it, is inclusive at day granularity.
type Query struct {
	Role      string
	UserID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Section   string
}

// MonthCount is one month's appointment tally, keyed 'YYYY-MM'.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// StatusCount is an appointment tally per status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TypeCount is a procedure-history tally per procedure type.
type TypeCount struct {
	ProcedureType string `json:"procedure_type"`
	Count         int64  `json:"count"`
}

// SpeciesCount is a patient tally per species.
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int64  `json:"count"`
}

// UserCounts breaks the active staff down by role.
type UserCounts struct {
	TotalUsers    int64 `json:"total_users"`
	Veterinarians int64 `json:"veterinarians"`
	Assistants    int64 `json:"assistants"`
	Admins        int64 `json:"admins"`
}

// VeterinarianStats is the activity summary of one veterinarian.
type VeterinarianStats struct {
	AppointmentsByStatus  []StatusCount  `json:"appointments_by_status"`
	ProceduresPerformed   []TypeCount    `json:"procedures_performed"`
	MedicalRecordsCreated int64          `json:"medical_records_created"`
	PatientsAttended      []SpeciesCount `json:"patients_attended"`
}

// Overview is the response envelope; only the sections computed for the
// caller's role are present.
type Overview struct {
	AppointmentsByMonth []MonthCount       `json:"appointments_by_month,omitempty"`
	UserCounts          *UserCounts        `json:"user_counts,omitempty"`
	ProceduresByType    []TypeCount        `json:"procedures_by_type,omitempty"`
	PatientsBySpecies   []SpeciesCount     `json:"patients_by_species,omitempty"`
	VeterinarianStats   *VeterinarianStats `json:"veterinarian_stats,omitempty"`
}
