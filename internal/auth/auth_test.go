package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret-0123456789abcdef"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func TestNewVerifierRejectsShortSecret(t *testing.T) {
	if _, err := NewVerifier("too-short"); err == nil {
		t.Fatal("expected error for short secret")
	}
	if _, err := NewVerifier(strings.Repeat(" ", 64)); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	v := newTestVerifier(t)

	token, err := v.GenerateToken(1, RoleNGO, "ngo@x.com", 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := v.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	id, ok := UserID(claims)
	if !ok || id != 1 {
		t.Fatalf("unexpected userId: %d, ok=%v", id, ok)
	}
	role, ok := Role(claims)
	if !ok || role != RoleNGO {
		t.Fatalf("unexpected role: %s, ok=%v", role, ok)
	}
	username, ok := Username(claims)
	if !ok || username != "ngo@x.com" {
		t.Fatalf("unexpected username: %s, ok=%v", username, ok)
	}
}

func TestParseAndValidateIsIdempotent(t *testing.T) {
	v := newTestVerifier(t)
	token, err := v.GenerateToken(7, RoleAdmin, "admin@x.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	first, err := v.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("first ParseAndValidate: %v", err)
	}
	second, err := v.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("second ParseAndValidate: %v", err)
	}
	firstID, _ := UserID(first)
	secondID, _ := UserID(second)
	if firstID != secondID {
		t.Fatalf("userId diverged across verifications: %d vs %d", firstID, secondID)
	}
	firstRole, _ := Role(first)
	secondRole, _ := Role(second)
	if firstRole != secondRole {
		t.Fatalf("role diverged across verifications: %s vs %s", firstRole, secondRole)
	}
}

func TestParseAndValidateRejectsWrongSecret(t *testing.T) {
	other, err := NewVerifier("another-secret-value-0123456789abcdef")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	token, err := other.GenerateToken(1, RoleNGO, "ngo@x.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	v := newTestVerifier(t)
	if _, err := v.ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseAndValidateRejectsExpired(t *testing.T) {
	v := newTestVerifier(t)

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "ngo@x.com",
		"userId": 1,
		"role":   RoleNGO,
		"iat":    jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		"exp":    jwt.NewNumericDate(now.Add(-time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.ParseAndValidate(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseAndValidateRejectsWrongAlgorithm(t *testing.T) {
	v := newTestVerifier(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":    "ngo@x.com",
		"userId": 1,
		"role":   RoleNGO,
		"exp":    jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.ParseAndValidate(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}

func TestParseAndValidateRejectsMalformed(t *testing.T) {
	v := newTestVerifier(t)
	for _, token := range []string{"", "   ", "not-a-token", "a.b", "a.b.c"} {
		if _, err := v.ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
