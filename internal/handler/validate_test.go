package handler

import (
	"strings"
	"testing"
)

func validRegisterReq() registerReq {
	return registerReq{
		FirstName:       "Ann",
		LastName:        "Lee",
		Email:           "ann@ex.com",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
		DateOfBirth:     "1990-01-01",
		Gender:          "F",
	}
}

func TestRegisterReqValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*registerReq)
		detail string // empty means the request must be valid
	}{
		{"valid", func(r *registerReq) {}, ""},
		{"missing first name", func(r *registerReq) { r.FirstName = " " }, "firstName"},
		{"missing last name", func(r *registerReq) { r.LastName = "" }, "lastName"},
		{"bad email", func(r *registerReq) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *registerReq) { r.Password, r.PasswordConfirm = "short", "short" }, "password"},
		{"confirm mismatch", func(r *registerReq) { r.PasswordConfirm = "Different1!" }, "passwordConfirm"},
		{"bad date", func(r *registerReq) { r.DateOfBirth = "01/01/1990" }, "dateOfBirth"},
		{"missing gender", func(r *registerReq) { r.Gender = "" }, "gender"},
		{"height out of range", func(r *registerReq) { h := 400.0; r.HeightCm = &h }, "heightCm"},
		{"weight out of range", func(r *registerReq) { w := -3.0; r.WeightKg = &w }, "weightKg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterReq()
			tt.mutate(&req)
			details := req.validate()
			if tt.detail == "" {
				if len(details) != 0 {
					t.Errorf("expected no details, got %v", details)
				}
				return
			}
			if !containsDetail(details, tt.detail) {
				t.Errorf("details %v do not mention %q", details, tt.detail)
			}
		})
	}
}

func validCreateWorkoutReq() createWorkoutReq {
	return createWorkoutReq{
		Name:            "Morning run",
		Date:            "2026-08-01",
		DurationMinutes: 45,
		Calories:        400,
		Type:            "running",
	}
}

func TestCreateWorkoutReqValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*createWorkoutReq)
		detail string
	}{
		{"valid", func(r *createWorkoutReq) {}, ""},
		{"type case-insensitive", func(r *createWorkoutReq) { r.Type = "Running" }, ""},
		{"missing name", func(r *createWorkoutReq) { r.Name = "" }, "name"},
		{"bad date", func(r *createWorkoutReq) { r.Date = "2026-13-45" }, "date"},
		{"zero duration", func(r *createWorkoutReq) { r.DurationMinutes = 0 }, "durationMinutes"},
		{"duration above one day", func(r *createWorkoutReq) { r.DurationMinutes = 1441 }, "durationMinutes"},
		{"negative calories", func(r *createWorkoutReq) { r.Calories = -1 }, "calories"},
		{"calories above cap", func(r *createWorkoutReq) { r.Calories = 10001 }, "calories"},
		{"unknown type", func(r *createWorkoutReq) { r.Type = "levitation" }, "type"},
		{"notes too long", func(r *createWorkoutReq) { r.Notes = strings.Repeat("x", 1001) }, "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateWorkoutReq()
			tt.mutate(&req)
			details := req.validate()
			if tt.detail == "" {
				if len(details) != 0 {
					t.Errorf("expected no details, got %v", details)
				}
				return
			}
			if !containsDetail(details, tt.detail) {
				t.Errorf("details %v do not mention %q", details, tt.detail)
			}
		})
	}
}

func containsDetail(details []string, field string) bool {
	for _, d := range details {
		if strings.Contains(d, field) {
			return true
		}
	}
	return false
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name           string
		page, pageSize int
		total          int64
		wantPages      int
		wantNext       bool
		wantPrev       bool
	}{
		{"empty", 1, 20, 0, 0, false, false},
		{"single partial page", 1, 20, 5, 1, false, false},
		{"exact multiple", 1, 20, 40, 2, true, false},
		{"middle page", 2, 10, 35, 4, true, true},
		{"last page", 4, 10, 35, 4, false, true},
		{"past the end", 9, 10, 35, 4, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPageMeta(tt.page, tt.pageSize, tt.total)
			if m.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", m.TotalPages, tt.wantPages)
			}
			if m.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", m.HasNext, tt.wantNext)
			}
			if m.HasPrevious != tt.wantPrev {
				t.Errorf("HasPrevious = %v, want %v", m.HasPrevious, tt.wantPrev)
			}
			if m.Total != tt.total {
				t.Errorf("Total = %d, want %d", m.Total, tt.total)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "ann@ex.com", "first.last+tag@sub.domain.org"}
	invalid := []string{"", "plain", "@no-local.com", "no-at.com", "two@@ats.com", "sp ace@x.co"}
	for _, e := range valid {
		if !validEmail(e) {
			t.Errorf("validEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if validEmail(e) {
			t.Errorf("validEmail(%q) = true, want false", e)
		}
	}
}
