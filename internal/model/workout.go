package model

import (
	"database/sql"
	"time"
)

// WorkoutTypes is the closed set of accepted workout_type values.
var WorkoutTypes = map[string]bool{
	"running":  true,
	"cycling":  true,
	"swimming": true,
	"walking":  true,
	"hiking":   true,
	"strength": true,
	"crossfit": true,
	"yoga":     true,
	"other":    true,
}

// Bounds enforced on workout attributes at the API boundary.
const (
	MaxWorkoutDurationMin = 1440  // one day
	MaxWorkoutCalories    = 10000 // sanity cap
	MaxWorkoutNotesLen    = 1000
)

// Workout models a row in the `workouts` table: one recorded exercise
// session owned by a user.  CreatedBy records who inserted the row; it can
// differ from UserID when an admin edits ownership later.
type Workout struct {
	ID              uint64         // workouts.id
	UserID          uint64         // workouts.user_id (owning account)
	Name            string         // workouts.name
	WorkoutDate     time.Time      // workouts.workout_date (DATE)
	DurationMinutes int            // workouts.duration_minutes
	Calories        int            // workouts.calories
	WorkoutType     string         // workouts.workout_type
	Notes           sql.NullString // workouts.notes
	CreatedBy       uint64         // workouts.created_by
	CreatedAt       time.Time      // workouts.created_at
	UpdatedAt       time.Time      // workouts.updated_at
}
