package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimit_RequestsWithinLimit(t *testing.T) {
	cfg := RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         5,
	}

	e := echo.New()
	mw := RateLimit(cfg)
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Send 5 requests (within burst size), all should pass
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler(c)
		if err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}

		limitHeader := rec.Header().Get("X-RateLimit-Limit")
		if limitHeader != "10" {
			t.Errorf("request %d: expected X-RateLimit-Limit '10', got %q", i+1, limitHeader)
		}
	}
}

func TestRateLimit_ExceedsLimit(t *testing.T) {
	cfg := RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
	}

	e := echo.New()
	mw := RateLimit(cfg)
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// First 2 requests should pass (burst size = 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := handler(c)
		if err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
	}

	// Third request should be rate limited
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)

	if err == nil {
		t.Fatal("expected error for rate-limited request")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", httpErr.Code)
	}
}

func TestRateLimit_RetryAfterHeader(t *testing.T) {
	cfg := RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
	}

	e := echo.New()
	mw := RateLimit(cfg)
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// First request passes
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = handler(c)

	// Second request should be rate limited and include Retry-After
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	err := handler(c)

	if err == nil {
		t.Fatal("expected error for rate-limited request")
	}

	retryAfter := rec.Header().Get("Retry-After")
	if retryAfter == "" {
		t.Error("expected Retry-After header to be set")
	}

	retryVal, parseErr := strconv.Atoi(retryAfter)
	if parseErr != nil {
		t.Fatalf("Retry-After header is not a valid integer: %q", retryAfter)
	}
	if retryVal < 1 {
		t.Errorf("expected Retry-After >= 1, got %d", retryVal)
	}

	remaining := rec.Header().Get("X-RateLimit-Remaining")
	if remaining != "0" {
		t.Errorf("expected X-RateLimit-Remaining '0', got %q", remaining)
	}
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	cfg := RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
	}

	e := echo.New()
	mw := RateLimit(cfg)
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	send := func(ip string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return handler(c)
	}

	if err := send("10.0.0.1"); err != nil {
		t.Fatalf("first request from 10.0.0.1: expected no error, got %v", err)
	}
	if err := send("10.0.0.1"); err == nil {
		t.Fatal("second request from 10.0.0.1: expected rate limit error")
	}
	// A different client gets its own bucket
	if err := send("10.0.0.2"); err != nil {
		t.Fatalf("first request from 10.0.0.2: expected no error, got %v", err)
	}
}

func TestRateLimit_DefaultConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()

	if cfg.RequestsPerSecond <= 0 {
		t.Error("expected positive default rate")
	}
	if cfg.BurstSize <= 0 {
		t.Error("expected positive default burst")
	}
}
