// Package procedure manages the catalog of medical procedures the clinic
// offers: vaccines, surgeries and the like, with an optional standard
// duration.
package procedure

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Procedure type values.
const (
	TypeVaccine   = "vaccine"
	TypeSurgery   = "surgery"
	TypeDeworming = "deworming"
	TypeTest      = "test"
	TypeGrooming  = "grooming"
	TypeOther     = "other"
)

// AllTypes lists the accepted procedure type values.
var AllTypes = []string{
	TypeVaccine, TypeSurgery, TypeDeworming, TypeTest, TypeGrooming, TypeOther,
}

// Procedure is a catalog entry. DurationFormatted is derived from
// DurationMinutes for responses and is never stored.
type Procedure struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ProcedureType     string    `json:"procedure_type"`
	Description       *string   `json:"description"`
	DurationMinutes   *int      `json:"duration_minutes"`
	DurationFormatted *string   `json:"duration_formatted"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FormatDuration renders a duration in minutes as readable text, e.g.
// "45 min", "2 h" or "2 h 30 min".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, m)
	}
}

// Enrich fills the derived duration text.
func (p *Procedure) Enrich() {
	if p.DurationMinutes != nil {
		formatted := FormatDuration(*p.DurationMinutes)
		p.DurationFormatted = &formatted
	}
}

// CreateInput carries the fields accepted when registering a procedure.
type CreateInput struct {
	Name            string  `json:"name"`
	ProcedureType   string  `json:"procedure_type"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes"`
}

// UpdateInput carries the patchable fields. Description and duration accept
// an explicit null to clear; name and procedure type do not.
type UpdateInput struct {
	Name            patch.Field[string] `json:"name"`
	ProcedureType   patch.Field[string] `json:"procedure_type"`
	Description     patch.Field[string] `json:"description"`
	DurationMinutes patch.Field[int]    `json:"duration_minutes"`
}

// Filter narrows procedure listings. Nil and zero values impose no
// constraint.
type Filter struct {
	NameContains  string
	ProcedureType string
	MinDuration   *int
	MaxDuration   *int
}
