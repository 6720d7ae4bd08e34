package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/model"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/utils"
)

// Default GitHub endpoints.  Overridable so tests can point the handler at
// an httptest server.
const (
	githubAuthorizeURL = "https://github.com/login/oauth/authorize"
	githubTokenURL     = "https://github.com/login/oauth/access_token"
	githubAPIBase      = "https://api.github.com"
)

// Placeholder profile values for accounts created from a GitHub identity.
// GitHub does not supply date of birth or body metrics, so fixed defaults
// are stored until the user edits their profile.
var githubProfileDOB = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const githubProfileGender = "other"

// userStore is the slice of the user repository the federated login
// resolves accounts against.  *repository.UserRepo satisfies it.
type userStore interface {
	GetByGitHubID(ctx context.Context, ghID int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	LinkGitHub(ctx context.Context, userID uint64, ghID int64, login string) error
	Create(ctx context.Context, u model.User) (uint64, error)
}

// GitHubHandler implements login via GitHub: redirect to the provider,
// exchange the callback code, fetch the profile and map it onto a local
// account (found, linked or created).
type GitHubHandler struct {
	Cfg    config.Config
	Users  userStore
	States *repository.OAuthStateRepo
	Client *http.Client

	AuthorizeURL string
	TokenURL     string
	APIBase      string
}

func NewGitHubHandler(cfg config.Config, u userStore, s *repository.OAuthStateRepo) *GitHubHandler {
	return &GitHubHandler{
		Cfg:          cfg,
		Users:        u,
		States:       s,
		Client:       &http.Client{Timeout: 10 * time.Second},
		AuthorizeURL: githubAuthorizeURL,
		TokenURL:     githubTokenURL,
		APIBase:      githubAPIBase,
	}
}

// Start handles GET /v1/auth/github: mints a one-shot state and redirects
// the browser to the GitHub authorize page.
func (h *GitHubHandler) Start(c echo.Context) error {
	if h.Cfg.GitHubClientID == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "github login is not configured"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	state, err := h.States.Create(ctx)
	if err != nil {
		c.Logger().Errorf("github: create state: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "github login failed"})
	}

	q := url.Values{}
	q.Set("client_id", h.Cfg.GitHubClientID)
	q.Set("redirect_uri", h.Cfg.GitHubRedirectURL)
	q.Set("scope", "read:user user:email")
	q.Set("state", state)

	return c.Redirect(http.StatusFound, h.AuthorizeURL+"?"+q.Encode())
}

// Callback handles GET /v1/auth/github/callback.  On success the resolved
// account (existing, linked or newly created) receives an access token
// carrying its current email and role.  Any persistence failure along the
// way surfaces as a generic authentication failure.
func (h *GitHubHandler) Callback(c echo.Context) error {
	if h.Cfg.GitHubClientID == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "github login is not configured"})
	}
	if errParam := c.QueryParam("error"); errParam != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "github authorization was denied"})
	}
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing code or state"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.States.Consume(ctx, state); err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid state"})
		}
		c.Logger().Errorf("github: consume state: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "github login failed"})
	}

	accessToken, err := h.exchangeCode(ctx, code)
	if err != nil {
		c.Logger().Errorf("github: exchange code: %v", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "github authentication failed"})
	}

	profile, err := h.fetchProfile(ctx, accessToken)
	if err != nil {
		c.Logger().Errorf("github: fetch profile: %v", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "github authentication failed"})
	}

	u, err := h.resolveOrCreate(ctx, profile)
	if err != nil {
		// No partial account state is exposed; the caller only learns that
		// authentication did not complete.
		c.Logger().Errorf("github: resolve account: %v", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "github authentication failed"})
	}

	role := u.Role
	if role == "" {
		role = model.RoleUser
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, role)
	if err != nil {
		c.Logger().Errorf("github: issue token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "github login failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "login successful", "token": access.Token})
}

// githubProfile is the provider identity the callback resolves against.
type githubProfile struct {
	ID     int64
	Login  string
	Name   string
	Emails []string // verified emails, primary first when known
}

// exchangeCode swaps the callback code for a provider access token via a
// form POST, as GitHub's web application flow expects.
func (h *GitHubHandler) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", h.Cfg.GitHubClientID)
	form.Set("client_secret", h.Cfg.GitHubClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", h.Cfg.GitHubRedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New("token exchange failed")
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", errors.New("missing access token")
	}
	return payload.AccessToken, nil
}

// fetchProfile loads /user and /user/emails.  The email list is optional:
// a failure there degrades to whatever public email the profile carries.
func (h *GitHubHandler) fetchProfile(ctx context.Context, accessToken string) (githubProfile, error) {
	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := h.apiGet(ctx, accessToken, "/user", &user); err != nil {
		return githubProfile{}, err
	}
	if user.ID == 0 || user.Login == "" {
		return githubProfile{}, errors.New("incomplete github profile")
	}

	p := githubProfile{ID: user.ID, Login: user.Login, Name: user.Name}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := h.apiGet(ctx, accessToken, "/user/emails", &emails); err == nil {
		for _, e := range emails {
			if e.Primary && e.Verified {
				p.Emails = append([]string{e.Email}, p.Emails...)
			} else if e.Verified {
				p.Emails = append(p.Emails, e.Email)
			}
		}
	}
	if len(p.Emails) == 0 && user.Email != "" {
		p.Emails = []string{user.Email}
	}
	return p, nil
}

func (h *GitHubHandler) apiGet(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.APIBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("github api returned " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// resolveOrCreate maps a provider identity to a local account.  Resolution
// order, first match wins:
//
//  1. account already linked to this GitHub id
//  2. account whose email equals the derived profile email -> link in place
//  3. create a new account from the profile
//
// The sequence is not transactional; the unique indexes on email and
// github_id backstop the races, and a duplicate-key create falls back to
// re-resolving by id.
func (h *GitHubHandler) resolveOrCreate(ctx context.Context, p githubProfile) (model.User, error) {
	u, err := h.Users.GetByGitHubID(ctx, p.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, err
	}

	email := deriveEmail(p)

	u, err = h.Users.GetByEmail(ctx, email)
	if err == nil {
		// Same email registered by password: attach the GitHub identity so
		// both login paths land on this account.
		if err := h.Users.LinkGitHub(ctx, u.ID, p.ID, p.Login); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				// The github id got linked to another account concurrently;
				// that account is the identity now.
				if u2, err2 := h.Users.GetByGitHubID(ctx, p.ID); err2 == nil {
					return u2, nil
				}
			}
			return model.User{}, err
		}
		u.GitHubID = sql.NullInt64{Int64: p.ID, Valid: true}
		u.GitHubUsername = sql.NullString{String: p.Login, Valid: true}
		return u, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, err
	}

	first, last := splitName(p.Name, p.Login)
	nu := model.User{
		Email:          email,
		GitHubID:       sql.NullInt64{Int64: p.ID, Valid: true},
		GitHubUsername: sql.NullString{String: p.Login, Valid: true},
		FirstName:      first,
		LastName:       last,
		DateOfBirth:    githubProfileDOB,
		Gender:         githubProfileGender,
		Role:           model.RoleUser,
		IsActive:       true,
		EmailVerified:  true, // provider-supplied emails are trusted
	}
	id, err := h.Users.Create(ctx, nu)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost a concurrent first-login race; the winner's row exists now.
			if u, err2 := h.Users.GetByGitHubID(ctx, p.ID); err2 == nil {
				return u, nil
			}
			if u, err2 := h.Users.GetByEmail(ctx, email); err2 == nil {
				return u, nil
			}
		}
		return model.User{}, err
	}
	nu.ID = id
	return nu, nil
}

// deriveEmail picks the effective email for a provider profile: the first
// listed email, normalized; profiles without any email get a synthetic
// placeholder that is never deliverable.
func deriveEmail(p githubProfile) string {
	if len(p.Emails) > 0 {
		return strings.ToLower(strings.TrimSpace(p.Emails[0]))
	}
	return strings.ToLower(p.Login) + "@github.local"
}

// splitName derives first/last name from the provider display name: the
// first token becomes the first name and the remainder the last name.  A
// profile without a display name falls back to the login.
func splitName(display, login string) (first, last string) {
	display = strings.TrimSpace(display)
	if display == "" {
		return login, ""
	}
	parts := strings.SplitN(display, " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}
