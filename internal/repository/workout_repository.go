package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

const workoutColumns = "id,user_id,name,workout_date,duration_minutes,calories,workout_type," +
	"notes,created_by,created_at,updated_at"

// WorkoutRepo provides access to the 'workouts' table.
type WorkoutRepo struct{ DB *sql.DB }

func NewWorkoutRepo(db *sql.DB) *WorkoutRepo { return &WorkoutRepo{DB: db} }

// Create inserts a workout and returns its ID.
func (r *WorkoutRepo) Create(ctx context.Context, w model.Workout) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO workouts
			(user_id, name, workout_date, duration_minutes, calories, workout_type, notes, created_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		w.UserID, w.Name, w.WorkoutDate, w.DurationMinutes, w.Calories, w.WorkoutType, w.Notes, w.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a workout by id.
func (r *WorkoutRepo) GetByID(ctx context.Context, id uint64) (model.Workout, error) {
	var w model.Workout
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+workoutColumns+" FROM workouts WHERE id=? LIMIT 1", id).Scan(
		&w.ID, &w.UserID, &w.Name, &w.WorkoutDate, &w.DurationMinutes, &w.Calories,
		&w.WorkoutType, &w.Notes, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Workout{}, ErrWorkoutNotFound
	}
	return w, err
}

// Update persists the mutable fields of w, including ownership.  The
// handler layer is responsible for having authorized an ownership change.
func (r *WorkoutRepo) Update(ctx context.Context, w model.Workout) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE workouts SET user_id=?, name=?, workout_date=?, duration_minutes=?,
			calories=?, workout_type=?, notes=?, updated_at=NOW() WHERE id=?`,
		w.UserID, w.Name, w.WorkoutDate, w.DurationMinutes, w.Calories,
		w.WorkoutType, w.Notes, w.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, w.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a workout row.
func (r *WorkoutRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM workouts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}
