// Package breed manages the catalog of animal breeds. It also owns the
// species taxonomy shared with the patient domain.
package breed

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Species values accepted for breeds and patients.
const (
	SpeciesDog     = "dog"
	SpeciesCat     = "cat"
	SpeciesBird    = "bird"
	SpeciesReptile = "reptile"
	SpeciesRodent  = "rodent"
	SpeciesRabbit  = "rabbit"
	SpeciesOther   = "other"
)

// AllSpecies lists the accepted species values.
var AllSpecies = []string{
	SpeciesDog, SpeciesCat, SpeciesBird, SpeciesReptile,
	SpeciesRodent, SpeciesRabbit, SpeciesOther,
}

// ValidSpecies reports whether s is a recognized species value.
func ValidSpecies(s string) bool {
	for _, sp := range AllSpecies {
		if s == sp {
			return true
		}
	}
	return false
}

// Breed is a catalog entry. (species, name) is unique, with the name compared
// case-insensitively.
type Breed struct {
	ID        uuid.UUID `json:"id"`
	Species   string    `json:"species"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput carries the fields accepted when registering a breed.
type CreateInput struct {
	Species string `json:"species"`
	Name    string `json:"name"`
}

// UpdateInput carries the patchable fields. Both are non-nullable, so an
// explicit null is rejected.
type UpdateInput struct {
	Species patch.Field[string] `json:"species"`
	Name    patch.Field[string] `json:"name"`
}

// Filter narrows breed listings. Zero values impose no constraint.
type Filter struct {
	Species string
	Name    string
}
