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
	"github.com/iliyamo/fitness-tracker/internal/queue"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	queue_publisher "github.com/iliyamo/fitness-tracker/internal/service"
)

// WorkoutHandler serves the workout resource.  The user repository is
// needed to confirm that a declared owner account exists.
type WorkoutHandler struct {
	Workouts *repository.WorkoutRepo
	Users    *repository.UserRepo
}

func NewWorkoutHandler(w *repository.WorkoutRepo, u *repository.UserRepo) *WorkoutHandler {
	if w == nil || u == nil {
		panic("nil repository passed to NewWorkoutHandler")
	}
	return &WorkoutHandler{Workouts: w, Users: u}
}

type createWorkoutReq struct {
	UserID          *uint64 `json:"userId"` // declared owner; defaults to the caller
	Name            string  `json:"name"`
	Date            string  `json:"date"`
	DurationMinutes int     `json:"durationMinutes"`
	Calories        int     `json:"calories"`
	Type            string  `json:"type"`
	Notes           string  `json:"notes"`
}

func (r *createWorkoutReq) validate() []string {
	var details []string
	if strings.TrimSpace(r.Name) == "" {
		details = append(details, "name is required")
	}
	if _, err := parseDate(r.Date); err != nil {
		details = append(details, "date must be a date in YYYY-MM-DD format")
	}
	if r.DurationMinutes < 1 || r.DurationMinutes > model.MaxWorkoutDurationMin {
		details = append(details, "durationMinutes must be between 1 and 1440")
	}
	if r.Calories < 0 || r.Calories > model.MaxWorkoutCalories {
		details = append(details, "calories must be between 0 and 10000")
	}
	if !model.WorkoutTypes[strings.ToLower(strings.TrimSpace(r.Type))] {
		details = append(details, "type must be one of the supported workout types")
	}
	if len(r.Notes) > model.MaxWorkoutNotesLen {
		details = append(details, "notes must be at most 1000 characters")
	}
	return details
}

type workoutResp struct {
	ID              uint64 `json:"id"`
	UserID          uint64 `json:"userId"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	Calories        int    `json:"calories"`
	Type            string `json:"type"`
	Notes           string `json:"notes,omitempty"`
	CreatedBy       uint64 `json:"createdBy"`
}

func newWorkoutResp(w model.Workout) workoutResp {
	resp := workoutResp{
		ID:              w.ID,
		UserID:          w.UserID,
		Name:            w.Name,
		Date:            w.WorkoutDate.Format(dateLayout),
		DurationMinutes: w.DurationMinutes,
		Calories:        w.Calories,
		Type:            w.WorkoutType,
		CreatedBy:       w.CreatedBy,
	}
	if w.Notes.Valid {
		resp.Notes = w.Notes.String
	}
	return resp
}

// Create handles POST /v1/workouts.  The declared owner defaults to the
// caller; declaring someone else requires the admin role, and the owner
// account must exist either way.
func (h *WorkoutHandler) Create(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createWorkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if details := req.validate(); len(details) > 0 {
		return validationFailed(c, details)
	}

	ownerID := callerID
	if req.UserID != nil && *req.UserID != 0 {
		ownerID = *req.UserID
	}
	if !canAssignOwner(callerID, role, ownerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return validationFailed(c, []string{"userId must reference an existing account"})
		}
		c.Logger().Errorf("workouts: check owner %d: %v", ownerID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create workout failed"})
	}

	date, _ := parseDate(req.Date)
	w := model.Workout{
		UserID:          ownerID,
		Name:            strings.TrimSpace(req.Name),
		WorkoutDate:     date,
		DurationMinutes: req.DurationMinutes,
		Calories:        req.Calories,
		WorkoutType:     strings.ToLower(strings.TrimSpace(req.Type)),
		Notes:           nullString(strings.TrimSpace(req.Notes)),
		CreatedBy:       callerID,
	}

	id, err := h.Workouts.Create(ctx, w)
	if err != nil {
		c.Logger().Errorf("workouts: create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create workout failed"})
	}

	// Publish off the request path; a broker outage must not fail the write.
	ev := queue.WorkoutRecordedEvent{
		WorkoutID:       id,
		UserID:          w.UserID,
		CreatedBy:       w.CreatedBy,
		Name:            w.Name,
		WorkoutType:     w.WorkoutType,
		WorkoutDate:     req.Date,
		DurationMinutes: w.DurationMinutes,
		Calories:        w.Calories,
		RecordedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), dbTimeout)
		defer pubCancel()
		_ = queue_publisher.PublishWorkoutRecorded(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, echo.Map{"message": "workout created", "id": id})
}

// List handles GET /v1/workouts.  Filters (date range, type substring, and
// for admins an owner account) are ANDed; non-admin listings are
// constrained to the caller's own workouts inside the query itself, not by
// filtering rows afterwards.
func (h *WorkoutHandler) List(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	page, pageSize := pageParams(c)
	q := repository.WorkoutSearchQuery{
		Type:     strings.TrimSpace(c.QueryParam("type")),
		Page:     page,
		PageSize: pageSize,
	}

	var details []string
	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		t, err := parseDate(from)
		if err != nil {
			details = append(details, "from must be a date in YYYY-MM-DD format")
		} else {
			q.From = t
		}
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		t, err := parseDate(to)
		if err != nil {
			details = append(details, "to must be a date in YYYY-MM-DD format")
		} else {
			q.To = t
		}
	}
	if len(details) > 0 {
		return validationFailed(c, details)
	}

	if isAdmin(role) {
		if s := c.QueryParam("userId"); s != "" {
			uid, err := strconv.ParseUint(s, 10, 64)
			if err != nil || uid == 0 {
				return validationFailed(c, []string{"userId must be a positive integer"})
			}
			q.UserID = uid
		}
	} else {
		// Ownership scoping for regular users, regardless of what was asked.
		q.UserID = callerID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, total, err := h.Workouts.Search(ctx, q)
	if err != nil {
		c.Logger().Errorf("workouts: search: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list workouts failed"})
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

// Get handles GET /v1/workouts/:id.  Owner or admin.
func (h *WorkoutHandler) Get(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workout id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	w, err := h.Workouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
		}
		c.Logger().Errorf("workouts: get %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load workout failed"})
	}
	if !ownerOrAdmin(callerID, role, w.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, newWorkoutResp(w))
}

type updateWorkoutReq struct {
	UserID          *uint64 `json:"userId"` // ownership reassignment, admin only
	Name            *string `json:"name"`
	Date            *string `json:"date"`
	DurationMinutes *int    `json:"durationMinutes"`
	Calories        *int    `json:"calories"`
	Type            *string `json:"type"`
	Notes           *string `json:"notes"`
}

// Update handles PUT /v1/workouts/:id.  Owner or admin; moving the workout
// to a different owner is admin-only even for the current owner.
func (h *WorkoutHandler) Update(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workout id"})
	}
	var req updateWorkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	w, err := h.Workouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
		}
		c.Logger().Errorf("workouts: load %d for update: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update workout failed"})
	}
	if !ownerOrAdmin(callerID, role, w.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.UserID != nil && *req.UserID != w.UserID {
		if !isAdmin(role) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can reassign workouts"})
		}
		if _, err := h.Users.GetByID(ctx, *req.UserID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return validationFailed(c, []string{"userId must reference an existing account"})
			}
			c.Logger().Errorf("workouts: check new owner %d: %v", *req.UserID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update workout failed"})
		}
		w.UserID = *req.UserID
	}

	var details []string
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			details = append(details, "name must not be empty")
		} else {
			w.Name = strings.TrimSpace(*req.Name)
		}
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			details = append(details, "date must be a date in YYYY-MM-DD format")
		} else {
			w.WorkoutDate = t
		}
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 1 || *req.DurationMinutes > model.MaxWorkoutDurationMin {
			details = append(details, "durationMinutes must be between 1 and 1440")
		} else {
			w.DurationMinutes = *req.DurationMinutes
		}
	}
	if req.Calories != nil {
		if *req.Calories < 0 || *req.Calories > model.MaxWorkoutCalories {
			details = append(details, "calories must be between 0 and 10000")
		} else {
			w.Calories = *req.Calories
		}
	}
	if req.Type != nil {
		t := strings.ToLower(strings.TrimSpace(*req.Type))
		if !model.WorkoutTypes[t] {
			details = append(details, "type must be one of the supported workout types")
		} else {
			w.WorkoutType = t
		}
	}
	if req.Notes != nil {
		if len(*req.Notes) > model.MaxWorkoutNotesLen {
			details = append(details, "notes must be at most 1000 characters")
		} else {
			w.Notes = nullString(strings.TrimSpace(*req.Notes))
		}
	}
	if len(details) > 0 {
		return validationFailed(c, details)
	}

	if err := h.Workouts.Update(ctx, w); err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
		}
		c.Logger().Errorf("workouts: update %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update workout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "workout updated"})
}

// Delete handles DELETE /v1/workouts/:id.  Permission is decided before
// existence is revealed: when the row is missing, only an admin learns that
// via 404; everyone else gets the same 403 they would get for a workout
// they do not own.
func (h *WorkoutHandler) Delete(c echo.Context) error {
	callerID, role, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workout id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	w, err := h.Workouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			if isAdmin(role) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		c.Logger().Errorf("workouts: load %d for delete: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete workout failed"})
	}
	if !ownerOrAdmin(callerID, role, w.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Workouts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			// Raced with another delete; the caller was authorized.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workout not found"})
		}
		c.Logger().Errorf("workouts: delete %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete workout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "workout deleted"})
}
