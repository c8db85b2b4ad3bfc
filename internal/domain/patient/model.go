// Package patient manages pets: identity, species and breed, ownership and
// the vitals captured at registration. A patient's breed, when set, must
// belong to the patient's species.
package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Gender values a patient may carry.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// AllGenders lists the accepted gender values.
var AllGenders = []string{GenderMale, GenderFemale, GenderUnknown}

// Patient is a pet. BreedName is denormalized from the breed catalog for
// responses and is never written directly.
type Patient struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	BreedID   *uuid.UUID `json:"breed_id"`
	BreedName *string    `json:"breed"`
	BirthDate *string    `json:"birth_date"`
	Gender    *string    `json:"gender"`
	WeightKg  *float64   `json:"weight_kg"`
	ClientID  uuid.UUID  `json:"client_id"`
	PhotoURL  *string    `json:"photo_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateInput carries the fields accepted when registering a patient.
// BirthDate uses YYYY-MM-DD.
type CreateInput struct {
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	BreedID   *uuid.UUID `json:"breed_id"`
	BirthDate *string    `json:"birth_date"`
	Gender    *string    `json:"gender"`
	WeightKg  *float64   `json:"weight_kg"`
	ClientID  uuid.UUID  `json:"client_id"`
	PhotoURL  *string    `json:"photo_url"`
}

// UpdateInput carries the patchable fields. Breed, birth date, gender,
// weight and photo accept an explicit null to clear; name, species and
// client do not.
type UpdateInput struct {
	Name      patch.Field[string]    `json:"name"`
	Species   patch.Field[string]    `json:"species"`
	BreedID   patch.Field[uuid.UUID] `json:"breed_id"`
	BirthDate patch.Field[string]    `json:"birth_date"`
	Gender    patch.Field[string]    `json:"gender"`
	WeightKg  patch.Field[float64]   `json:"weight_kg"`
	ClientID  patch.Field[uuid.UUID] `json:"client_id"`
	PhotoURL  patch.Field[string]    `json:"photo_url"`
}

// Filter narrows patient listings. Nil and zero values impose no constraint.
type Filter struct {
	Name     string
	Species  string
	BreedID  *uuid.UUID
	ClientID *uuid.UUID
	Gender   string
}
