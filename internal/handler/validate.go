package handler

// validate.go contains the small request-validation helpers shared by the
// handlers, plus the pagination plumbing.  Failures are collected into a
// human-readable details list and answered as a single 400.

import (
	"database/sql"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dateLayout is the wire format for all date-only fields.
const dateLayout = "2006-01-02"

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(s string) bool { return emailRx.MatchString(s) }

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// validationFailed renders the standard 400 payload with per-field details.
func validationFailed(c echo.Context, details []string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":   "validation failed",
		"details": details,
	})
}

// nullString wraps a non-empty string into a valid sql.NullString.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullFloat converts an optional request field into sql.NullFloat64.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// pageParams reads 1-based page/pageSize query parameters with the usual
// clamping (pageSize capped at 100).
func pageParams(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// pageMeta is the pagination block attached to every listing response.
type pageMeta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// newPageMeta derives the metadata arithmetically from the total matching
// count and page size.
func newPageMeta(page, pageSize int, total int64) pageMeta {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return pageMeta{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
