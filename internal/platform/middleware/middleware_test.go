package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
)

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		rid := c.Get("request_id").(string)
		if rid == "" {
			t.Error("expected request_id to be generated")
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := RequestID()
	h := mw(handler)
	err := h(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		rid := c.Get("request_id").(string)
		if rid != "my-custom-id" {
			t.Errorf("expected my-custom-id, got %s", rid)
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := RequestID()
	h := mw(handler)
	h(c)

	if rec.Header().Get(RequestIDHeader) != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", rec.Header().Get(RequestIDHeader))
	}
}

func TestLogger_LogsRequest(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := Logger(logger)
	h := mw(handler)
	err := h(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogger_PropagatesHandlerError(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	want := httperr.NotFound("patient")
	handler := func(c echo.Context) error {
		return want
	}

	mw := Logger(logger)
	h := mw(handler)
	err := h(c)

	if !errors.Is(err, want) {
		t.Fatalf("expected handler error to pass through, got %v", err)
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		panic("test panic")
	}

	mw := Recovery(logger)
	h := mw(handler)
	err := h(c)

	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	var apiErr *httperr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *httperr.Error, got %T", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apiErr.Status)
	}
	if apiErr.Message != "internal server error" {
		t.Errorf("expected generic message, got %q", apiErr.Message)
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	logger := zerolog.New(os.Stderr).With().Logger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := Recovery(logger)
	h := mw(handler)
	err := h(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
