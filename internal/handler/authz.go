package handler

// authz.go holds the central access-control decisions shared by the user
// and workout handlers.  Both resource kinds use the same owner-or-admin
// shape; only the ownership field differs (a user owns itself, a workout is
// owned by the account its user_id points at).

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/model"
)

var errNoIdentity = errors.New("no authenticated identity in context")

// callerIdentity extracts the authenticated user id and role stored by the
// JWTAuth middleware.  Handlers treat a failure here as 401 rather than
// panicking on a missing middleware.
func callerIdentity(c echo.Context) (uint64, string, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, "", errNoIdentity
	}
	role, ok := c.Get(middleware.CtxRole).(string)
	if !ok || role == "" {
		role = model.RoleUser
	}
	return id, role, nil
}

func isAdmin(role string) bool { return role == model.RoleAdmin }

// ownerOrAdmin is the single read/update/delete gate: the caller must own
// the resource or hold the admin role.
func ownerOrAdmin(callerID uint64, role string, ownerID uint64) bool {
	return callerID == ownerID || isAdmin(role)
}

// canAssignOwner decides whether the caller may declare ownerID as the
// owner of a new workout: either it is their own account or they are an
// admin creating on someone's behalf.
func canAssignOwner(callerID uint64, role string, ownerID uint64) bool {
	return ownerID == callerID || isAdmin(role)
}

// canChangeRole enforces the role-update rules: admin only, and an admin
// may not move their own account off the admin role.  The admin-only part
// is also enforced by route middleware; repeating it keeps the decision
// self-contained.
func canChangeRole(callerID uint64, callerRole string, targetID uint64, newRole string) bool {
	if !isAdmin(callerRole) {
		return false
	}
	if targetID == callerID && newRole != model.RoleAdmin {
		return false // self-demotion blocked
	}
	return true
}
