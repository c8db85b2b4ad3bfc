package procedurelog

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
	svc, _ := newTestService()
	return NewHandler(svc), svc
}

func TestCreateEntryHandler(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	in := validCreate()
	body := `{"patient_id":"` + in.PatientID.String() + `","procedure_id":"` + in.ProcedureID.String() + `","date":"` + in.Date + `"}`
	req := httptest.NewRequest(http.MethodPost, "/patient_procedures", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateEntry(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var entry Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/patient_procedures/"+entry.ID.String() {
		t.Fatalf("unexpected location header: %q", loc)
	}
}

func TestListEntriesHandler_BadDateFilter(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patient_procedures?start_date=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListEntries(c)
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateEntryHandler_ClearNotes(t *testing.T) {
	h, svc := newTestHandler()
	notes := "first round"
	in := validCreate()
	in.Notes = &notes
	entry, err := svc.CreateEntry(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/patient_procedures/"+entry.ID.String(),
		strings.NewReader(`{"notes":null}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/patient_procedures/:id")
	c.SetParamNames("id")
	c.SetParamValues(entry.ID.String())

	if err := h.UpdateEntry(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Notes != nil {
		t.Fatalf("expected cleared notes, got %q", *got.Notes)
	}
}
