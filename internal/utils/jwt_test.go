package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

// TestAccessTokenRoundTrip verifies that a freshly issued token parses back
// to the same claims.
func TestAccessTokenRoundTrip(t *testing.T) {
	access, err := NewAccessToken(testSecret, 42, "ann@ex.com", "admin")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if access.Token == "" {
		t.Fatal("expected non-empty token")
	}
	wantExp := time.Now().UTC().Add(AccessTokenTTL)
	if diff := access.Exp.Sub(wantExp); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiry %v not within a minute of %v", access.Exp, wantExp)
	}

	claims, err := ParseAccessToken(testSecret, access.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "ann@ex.com" {
		t.Errorf("Email = %q, want ann@ex.com", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

// TestParseAccessToken_Expired verifies that a token whose exp lies in the
// past is rejected.
func TestParseAccessToken_Expired(t *testing.T) {
	now := time.Now().UTC()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": float64(7),
		"email":  "old@ex.com",
		"role":   "user",
		"iss":    Issuer,
		"iat":    now.Add(-3 * time.Hour).Unix(),
		"exp":    now.Add(-time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(testSecret, raw); err == nil {
		t.Fatal("expected error for expired token")
	}
}

// TestParseAccessToken_WrongSecret verifies signature validation.
func TestParseAccessToken_WrongSecret(t *testing.T) {
	access, err := NewAccessToken(testSecret, 1, "a@b.co", "user")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken("other-secret", access.Token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

// TestParseAccessToken_Malformed verifies garbage input is rejected.
func TestParseAccessToken_Malformed(t *testing.T) {
	if _, err := ParseAccessToken(testSecret, "not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

// TestAccessToken_MissingSecret verifies the misconfiguration sentinel on
// both the issue and verify paths.
func TestAccessToken_MissingSecret(t *testing.T) {
	if _, err := NewAccessToken("", 1, "a@b.co", "user"); err != ErrMissingSecret {
		t.Errorf("NewAccessToken err = %v, want ErrMissingSecret", err)
	}
	if _, err := ParseAccessToken("", "whatever"); err != ErrMissingSecret {
		t.Errorf("ParseAccessToken err = %v, want ErrMissingSecret", err)
	}
}

// TestParseAccessToken_DefaultsRole verifies that a token without a role
// claim falls back to the user role.
func TestParseAccessToken_DefaultsRole(t *testing.T) {
	now := time.Now().UTC()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": float64(9),
		"email":  "x@y.co",
		"iss":    Issuer,
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := ParseAccessToken(testSecret, raw)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, want user", claims.Role)
	}
}
