package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/middleware"
)

func TestOwnerOrAdmin(t *testing.T) {
	tests := []struct {
		name     string
		callerID uint64
		role     string
		ownerID  uint64
		want     bool
	}{
		{"owner acts on own resource", 1, "user", 1, true},
		{"non-owner denied", 1, "user", 2, false},
		{"admin acts on anyone", 3, "admin", 2, true},
		{"admin acts on self", 3, "admin", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ownerOrAdmin(tt.callerID, tt.role, tt.ownerID); got != tt.want {
				t.Errorf("ownerOrAdmin(%d,%q,%d) = %v, want %v",
					tt.callerID, tt.role, tt.ownerID, got, tt.want)
			}
		})
	}
}

func TestCanAssignOwner(t *testing.T) {
	if !canAssignOwner(1, "user", 1) {
		t.Error("user should create workouts for themselves")
	}
	if canAssignOwner(1, "user", 2) {
		t.Error("user must not create workouts for another account")
	}
	if !canAssignOwner(1, "admin", 2) {
		t.Error("admin should create workouts on behalf of others")
	}
}

func TestCanChangeRole(t *testing.T) {
	tests := []struct {
		name       string
		callerID   uint64
		callerRole string
		targetID   uint64
		newRole    string
		want       bool
	}{
		{"non-admin denied", 1, "user", 2, "admin", false},
		{"admin promotes another", 1, "admin", 2, "admin", true},
		{"admin demotes another", 1, "admin", 2, "user", true},
		{"self-demotion blocked", 1, "admin", 1, "user", false},
		{"self reassert admin allowed", 1, "admin", 1, "admin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canChangeRole(tt.callerID, tt.callerRole, tt.targetID, tt.newRole)
			if got != tt.want {
				t.Errorf("canChangeRole = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCallerIdentity(t *testing.T) {
	e := echo.New()
	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	// No identity at all.
	if _, _, err := callerIdentity(newCtx()); err == nil {
		t.Error("expected error without identity in context")
	}

	// Full identity.
	c := newCtx()
	c.Set(middleware.CtxUserID, uint64(7))
	c.Set(middleware.CtxRole, "admin")
	id, role, err := callerIdentity(c)
	if err != nil {
		t.Fatalf("callerIdentity: %v", err)
	}
	if id != 7 || role != "admin" {
		t.Errorf("got (%d,%q), want (7,admin)", id, role)
	}

	// Missing role falls back to user.
	c = newCtx()
	c.Set(middleware.CtxUserID, uint64(9))
	_, role, err = callerIdentity(c)
	if err != nil {
		t.Fatalf("callerIdentity: %v", err)
	}
	if role != "user" {
		t.Errorf("role = %q, want user fallback", role)
	}
}
