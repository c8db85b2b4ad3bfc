package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
)

func newTestHandler() (*Handler, *Service) {
	svc, _, _ := newTestService()
	return NewHandler(svc), svc
}

func TestCreatePatientHandler(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"name":"Rex","species":"dog","client_id":"` + validCreate().ClientID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/patients/"+p.ID.String() {
		t.Fatalf("unexpected location header: %q", loc)
	}
}

func TestUpdatePatientHandler_ClearGender(t *testing.T) {
	h, svc := newTestHandler()
	gender := GenderFemale
	in := validCreate()
	in.Gender = &gender
	p, err := svc.CreatePatient(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/patients/"+p.ID.String(),
		strings.NewReader(`{"gender":null}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/patients/:id")
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.UpdatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Gender != nil {
		t.Fatalf("expected cleared gender, got %v", *got.Gender)
	}
}

func TestListPatientsHandler_BadBreedFilter(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patients?breed_id=nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListPatients(c)
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetPatientHandler_NotFound(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patients/00000000-0000-0000-0000-000000000001", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/patients/:id")
	c.SetParamNames("id")
	c.SetParamValues("00000000-0000-0000-0000-000000000001")

	err := h.GetPatient(c)
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
