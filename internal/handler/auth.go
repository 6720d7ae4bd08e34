package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/utils"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for registration and password login.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	PasswordConfirm string   `json:"passwordConfirm"`
	DateOfBirth     string   `json:"dateOfBirth"`
	Gender          string   `json:"gender"`
	HeightCm        *float64 `json:"heightCm"`
	WeightKg        *float64 `json:"weightKg"`
	IsTest          bool     `json:"isTest"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *registerReq) validate() []string {
	var details []string
	if strings.TrimSpace(r.FirstName) == "" {
		details = append(details, "firstName is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		details = append(details, "lastName is required")
	}
	if !validEmail(r.Email) {
		details = append(details, "email must be a valid email address")
	}
	if len(r.Password) < 8 {
		details = append(details, "password must be at least 8 characters")
	}
	if r.Password != r.PasswordConfirm {
		details = append(details, "passwordConfirm must match password")
	}
	if _, err := parseDate(r.DateOfBirth); err != nil {
		details = append(details, "dateOfBirth must be a date in YYYY-MM-DD format")
	}
	if strings.TrimSpace(r.Gender) == "" {
		details = append(details, "gender is required")
	}
	if r.HeightCm != nil && (*r.HeightCm <= 0 || *r.HeightCm > 300) {
		details = append(details, "heightCm must be between 0 and 300")
	}
	if r.WeightKg != nil && (*r.WeightKg <= 0 || *r.WeightKg > 500) {
		details = append(details, "weightKg must be between 0 and 500")
	}
	return details
}

// Register creates a password-based account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if details := req.validate(); len(details) > 0 {
		return validationFailed(c, details)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		c.Logger().Errorf("register: hash password: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	dob, _ := parseDate(req.DateOfBirth)

	u := model.User{
		Email:        req.Email,
		PasswordHash: nullString(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DateOfBirth:  dob,
		Gender:       strings.TrimSpace(req.Gender),
		HeightCm:     nullFloat(req.HeightCm),
		WeightKg:     nullFloat(req.WeightKg),
		Role:         model.RoleUser,
		IsActive:     true,
		IsTest:       req.IsTest,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		c.Logger().Errorf("register: create user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "user created", "id": id})
}

// Login verifies email and password and returns a fresh access token.
// Unknown email and wrong password answer with the identical message so the
// response does not reveal whether an account exists.  A deactivated
// account answers with a distinct message; that intentionally breaks the
// anti-enumeration symmetry and is kept as designed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login: query user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is deactivated"})
	}
	if !u.PasswordHash.Valid || !utils.VerifyPassword(u.PasswordHash.String, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	role := u.Role
	if role == "" {
		role = model.RoleUser
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, role)
	if err != nil {
		// Covers the absent-secret misconfiguration; specifics stay in logs.
		c.Logger().Errorf("login: issue token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "login successful", "token": access.Token})
}

// Me echoes the claims of the presented token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"userId": c.Get(middleware.CtxUserID),
		"email":  c.Get(middleware.CtxEmail),
		"role":   c.Get(middleware.CtxRole),
	})
}
