package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("test-jwt-secret")
	userID := uuid.New()

	signed, err := IssueToken(secret, userID, "veterinarian")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(secret, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Role != "veterinarian" {
		t.Errorf("expected role veterinarian, got %s", claims.Role)
	}
}

func TestIssueToken_ThirtyDayExpiry(t *testing.T) {
	secret := []byte("test-jwt-secret")

	signed, err := IssueToken(secret, uuid.New(), "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(secret, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Now().Add(TokenTTL)
	if diff := claims.ExpiresAt.Time.Sub(expected); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected expiry near %v, got %v", expected, claims.ExpiresAt.Time)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	signed, err := IssueToken([]byte("secret-a"), uuid.New(), "assistant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken([]byte("secret-b"), signed); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken([]byte("secret"), "not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
