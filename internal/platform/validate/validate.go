// Package validate collects field-constraint violations so a request reports
// every problem in a single round trip instead of failing at the first one.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Violations accumulates human-readable constraint failures.
type Violations []string

// Add records a violation.
func (v *Violations) Add(format string, args ...interface{}) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

// Err returns nil when nothing was collected, otherwise a validation error
// carrying every violation.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return httperr.Validation(v...)
}

// StringLength checks that s is between min and max characters.
func (v *Violations) StringLength(field, s string, min, max int) {
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		v.Add("%s must be between %d and %d characters", field, min, max)
	}
}

// MaxLength checks that s is at most max characters.
func (v *Violations) MaxLength(field, s string, max int) {
	if utf8.RuneCountInString(s) > max {
		v.Add("%s must be at most %d characters", field, max)
	}
}

// Range checks that val lies within [min, max].
func (v *Violations) Range(field string, val, min, max float64) {
	if val < min || val > max {
		v.Add("%s must be between %v and %v", field, min, max)
	}
}

// IntRange checks that val lies within [min, max].
func (v *Violations) IntRange(field string, val, min, max int) {
	if val < min || val > max {
		v.Add("%s must be between %d and %d", field, min, max)
	}
}

// Email checks that s parses as an address.
func (v *Violations) Email(field, s string) {
	if _, err := mail.ParseAddress(s); err != nil {
		v.Add("%s must be a valid email address", field)
	}
}

// URL checks that s is an absolute http or https URL.
func (v *Violations) URL(field, s string) {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.Add("%s must be a valid http or https url", field)
	}
}

// OneOf checks that s is one of the allowed values.
func (v *Violations) OneOf(field, s string, allowed []string) {
	for _, a := range allowed {
		if s == a {
			return
		}
	}
	v.Add("%s must be one of: %s", field, strings.Join(allowed, ", "))
}

// Future checks that t lies strictly after now.
func (v *Violations) Future(field string, t time.Time) {
	if !t.After(time.Now()) {
		v.Add("%s must be in the future", field)
	}
}

// Date checks that s is a calendar date in YYYY-MM-DD form and returns the
// parsed day.
func (v *Violations) Date(field, s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		v.Add("%s must be a date in YYYY-MM-DD format", field)
		return time.Time{}, false
	}
	return t, true
}

// NotRemovable records the rejection of an explicit null on a field that may
// only be replaced.
func (v *Violations) NotRemovable(field string) {
	v.Add("%s cannot be removed, only updated", field)
}
