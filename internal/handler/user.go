package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
)

// UserHandler serves the user resource.  All methods assume JWTAuth has run;
// ownership and role decisions live in authz.go.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	if u == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: u}
}

// userResp is the full single-user projection.  The password hash is never
// part of any response; owner and admin otherwise see the same fields.
type userResp struct {
	ID             uint64    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DateOfBirth    string    `json:"dateOfBirth"`
	Gender         string    `json:"gender"`
	HeightCm       *float64  `json:"heightCm,omitempty"`
	WeightKg       *float64  `json:"weightKg,omitempty"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	EmailVerified  bool      `json:"emailVerified"`
	IsTest         bool      `json:"isTest"`
	GitHubUsername string    `json:"githubUsername,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newUserResp(u model.User) userResp {
	resp := userResp{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		DateOfBirth:   u.DateOfBirth.Format(dateLayout),
		Gender:        u.Gender,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		IsTest:        u.IsTest,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.HeightCm.Valid {
		v := u.HeightCm.Float64
		resp.HeightCm = &v
	}
	if u.WeightKg.Valid {
		v := u.WeightKg.Float64
		resp.WeightKg = &v
	}
	if u.GitHubUsername.Valid {
		resp.GitHubUsername = u.GitHubUsername.String
	}
	return resp
}

// List handles GET /v1/users.  Any authenticated caller may list accounts,
// but only the public-safe projection is returned; the restriction happens
// at the query level in the repository.
func (h *UserHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, total, err := h.Users.List(ctx, page, pageSize)
	if err != nil {
		c.Logger().Errorf("users: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}

	meta := newPageMeta(page, pageSize, total)
	return c.JSON(http.StatusOK, echo.Map{
		"data":        items,
		"page":        meta.Page,
		"pageSize":    meta.PageSize,
		"total":       meta.Total,
		"totalPages":  meta.TotalPages,
		"hasNext":     meta.HasNext,
		"hasPrevious": meta.HasPrevious,
	})
}

// Get handles GET /v1/users/:id.  Owner or admin only.
func (h *UserHandler) Get(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if !ownerOrAdmin(callerID, role, targetID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("users: get %d: %v", targetID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, newUserResp(u))
}

type updateUserReq struct {
	FirstName   *string  `json:"firstName"`
	LastName    *string  `json:"lastName"`
	Email       *string  `json:"email"`
	DateOfBirth *string  `json:"dateOfBirth"`
	Gender      *string  `json:"gender"`
	HeightCm    *float64 `json:"heightCm"`
	WeightKg    *float64 `json:"weightKg"`
}

// Update handles PUT /v1/users/:id.  Owner or admin; the role column is
// only reachable through the dedicated role endpoint.
func (h *UserHandler) Update(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if !ownerOrAdmin(callerID, role, targetID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("users: load %d for update: %v", targetID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}

	var details []string
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			details = append(details, "firstName must not be empty")
		} else {
			u.FirstName = strings.TrimSpace(*req.FirstName)
		}
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			details = append(details, "lastName must not be empty")
		} else {
			u.LastName = strings.TrimSpace(*req.LastName)
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validEmail(email) {
			details = append(details, "email must be a valid email address")
		} else {
			u.Email = email
		}
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			details = append(details, "dateOfBirth must be a date in YYYY-MM-DD format")
		} else {
			u.DateOfBirth = dob
		}
	}
	if req.Gender != nil {
		if strings.TrimSpace(*req.Gender) == "" {
			details = append(details, "gender must not be empty")
		} else {
			u.Gender = strings.TrimSpace(*req.Gender)
		}
	}
	if req.HeightCm != nil {
		if *req.HeightCm <= 0 || *req.HeightCm > 300 {
			details = append(details, "heightCm must be between 0 and 300")
		} else {
			u.HeightCm = nullFloat(req.HeightCm)
		}
	}
	if req.WeightKg != nil {
		if *req.WeightKg <= 0 || *req.WeightKg > 500 {
			details = append(details, "weightKg must be between 0 and 500")
		} else {
			u.WeightKg = nullFloat(req.WeightKg)
		}
	}
	if len(details) > 0 {
		return validationFailed(c, details)
	}

	if err := h.Users.UpdateProfile(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("users: update %d: %v", targetID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole handles PUT /v1/users/:id/role.  The route is additionally
// wrapped in RequireRole("admin"); the self-demotion rail lives here.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	callerID, callerRole, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		return validationFailed(c, []string{"role must be one of: user, admin"})
	}

	if !canChangeRole(callerID, callerRole, targetID, req.Role) {
		if callerID == targetID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot remove own admin role"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.UpdateRole(ctx, targetID, req.Role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("users: update role %d: %v", targetID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role updated"})
}

// Delete handles DELETE /v1/users/:id.  Authorization is decided before
// existence is revealed: a non-owner non-admin receives 403 even when the
// target id does not exist.
func (h *UserHandler) Delete(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if !ownerOrAdmin(callerID, role, targetID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("users: delete %d: %v", targetID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
