package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/utils"
)

const testSecret = "middleware-test-secret"

// callJWT wraps a trivial 200-OK handler in JWTAuth, optionally setting
// the Authorization header, and returns the recorder plus the context seen
// by the inner handler (nil when the middleware blocked the request).
func callJWT(t *testing.T, secret, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen echo.Context
	h := JWTAuth(secret)(func(c echo.Context) error {
		seen = c
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, seen
}

// TestJWTAuth_MissingHeader: no Authorization header answers 401.
func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, seen := callJWT(t, testSecret, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if seen != nil {
		t.Error("inner handler ran despite missing credentials")
	}
}

// TestJWTAuth_WrongScheme: a non-Bearer header answers 401.
func TestJWTAuth_WrongScheme(t *testing.T) {
	rec, _ := callJWT(t, testSecret, "Basic abc123")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestJWTAuth_InvalidToken: a present but invalid token answers 403, not
// 401 — missing and invalid credentials are deliberately distinct.
func TestJWTAuth_InvalidToken(t *testing.T) {
	rec, seen := callJWT(t, testSecret, "Bearer garbage.token.value")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if seen != nil {
		t.Error("inner handler ran despite invalid token")
	}
}

// TestJWTAuth_WrongSecret: a token signed with another secret answers 403.
func TestJWTAuth_WrongSecret(t *testing.T) {
	access, err := utils.NewAccessToken("another-secret", 5, "e@x.co", "user")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, _ := callJWT(t, testSecret, "Bearer "+access.Token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

// TestJWTAuth_ValidToken: a valid token passes and the claims are stored
// in the context for handlers.
func TestJWTAuth_ValidToken(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 42, "ann@ex.com", "admin")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, seen := callJWT(t, testSecret, "Bearer "+access.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil {
		t.Fatal("inner handler did not run")
	}
	if got, _ := seen.Get(CtxUserID).(uint64); got != 42 {
		t.Errorf("user_id = %v, want 42", seen.Get(CtxUserID))
	}
	if got, _ := seen.Get(CtxEmail).(string); got != "ann@ex.com" {
		t.Errorf("email = %v, want ann@ex.com", seen.Get(CtxEmail))
	}
	if got, _ := seen.Get(CtxRole).(string); got != "admin" {
		t.Errorf("role = %v, want admin", seen.Get(CtxRole))
	}
}
