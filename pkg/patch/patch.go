// Package patch provides the tri-state field representation used by partial
// updates. A field in an update request is either absent (leave the stored
// value unchanged), an explicit JSON null (clear the stored value) or a
// concrete value (replace the stored value).
package patch

import "encoding/json"

// Field wraps an updatable field of type T. The zero Field is absent.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// NewValue returns a Field carrying v.
func NewValue[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// NewNull returns a Field representing an explicit null.
func NewNull[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// IsSet reports whether the field appeared in the request at all.
func (f Field[T]) IsSet() bool { return f.present }

// IsNull reports whether the field was an explicit null.
func (f Field[T]) IsNull() bool { return f.present && f.null }

// Value returns the carried value; ok is false for absent or null fields.
func (f Field[T]) Value() (v T, ok bool) {
	if !f.present || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Ptr returns the carried value as a pointer, or nil for absent and null
// fields. Suitable as a SQL argument where NULL clears the column.
func (f Field[T]) Ptr() *T {
	if !f.present || f.null {
		return nil
	}
	v := f.value
	return &v
}

// UnmarshalJSON marks the field present and distinguishes null from a value.
// encoding/json only calls this for keys that appear in the payload, which is
// what makes the absent state observable.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.present = true
	if string(b) == "null" {
		f.null = true
		return nil
	}
	return json.Unmarshal(b, &f.value)
}

// MarshalJSON emits the carried value, or null for absent and null fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
