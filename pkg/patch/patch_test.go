package patch

import (
	"encoding/json"
	"testing"
)

type updatePayload struct {
	Name  Field[string]  `json:"name"`
	Notes Field[string]  `json:"notes"`
	Count Field[int]     `json:"count"`
	Score Field[float64] `json:"score"`
}

func TestUnmarshal_AbsentField(t *testing.T) {
	var u updatePayload
	if err := json.Unmarshal([]byte(`{}`), &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name.IsSet() {
		t.Error("expected absent field to report IsSet() == false")
	}
	if u.Name.IsNull() {
		t.Error("expected absent field to report IsNull() == false")
	}
	if _, ok := u.Name.Value(); ok {
		t.Error("expected no value for absent field")
	}
}

func TestUnmarshal_NullField(t *testing.T) {
	var u updatePayload
	if err := json.Unmarshal([]byte(`{"notes": null}`), &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.Notes.IsSet() {
		t.Error("expected null field to report IsSet() == true")
	}
	if !u.Notes.IsNull() {
		t.Error("expected null field to report IsNull() == true")
	}
	if _, ok := u.Notes.Value(); ok {
		t.Error("expected no value for null field")
	}
	if u.Notes.Ptr() != nil {
		t.Error("expected nil Ptr for null field")
	}
}

func TestUnmarshal_ValueField(t *testing.T) {
	var u updatePayload
	if err := json.Unmarshal([]byte(`{"name": "Rex", "count": 3}`), &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.Name.IsSet() || u.Name.IsNull() {
		t.Error("expected value field to be set and not null")
	}
	v, ok := u.Name.Value()
	if !ok || v != "Rex" {
		t.Errorf("expected value \"Rex\", got %q (ok=%v)", v, ok)
	}
	n, ok := u.Count.Value()
	if !ok || n != 3 {
		t.Errorf("expected value 3, got %d (ok=%v)", n, ok)
	}
	if u.Count.IsSet() && u.Score.IsSet() {
		t.Error("expected untouched sibling field to stay absent")
	}
}

func TestUnmarshal_ZeroValueIsStillSet(t *testing.T) {
	var u updatePayload
	if err := json.Unmarshal([]byte(`{"name": "", "count": 0}`), &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := u.Name.Value()
	if !ok || v != "" {
		t.Error("expected empty string to be a carried value, not absent")
	}
	n, ok := u.Count.Value()
	if !ok || n != 0 {
		t.Error("expected zero to be a carried value, not absent")
	}
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	var u updatePayload
	if err := json.Unmarshal([]byte(`{"count": "three"}`), &u); err == nil {
		t.Error("expected error for type mismatch")
	}
}

func TestPtr_Value(t *testing.T) {
	f := NewValue("hello")
	p := f.Ptr()
	if p == nil || *p != "hello" {
		t.Fatalf("expected pointer to \"hello\", got %v", p)
	}
	// Ptr must copy so callers cannot mutate the field through it.
	*p = "changed"
	if v, _ := f.Value(); v != "hello" {
		t.Error("expected Ptr to return a copy")
	}
}

func TestConstructors(t *testing.T) {
	v := NewValue(42)
	if !v.IsSet() || v.IsNull() {
		t.Error("NewValue should be set and not null")
	}
	n := NewNull[int]()
	if !n.IsSet() || !n.IsNull() {
		t.Error("NewNull should be set and null")
	}
	var zero Field[int]
	if zero.IsSet() {
		t.Error("zero Field should be absent")
	}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name  string
		field Field[string]
		want  string
	}{
		{"value", NewValue("abc"), `"abc"`},
		{"null", NewNull[string](), "null"},
		{"absent", Field[string]{}, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.field)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, b)
			}
		})
	}
}
