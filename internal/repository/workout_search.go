package repository

import (
	"context"
	"strings"
	"time"
)

// WorkoutSearchQuery defines filters & pagination for listing workouts.
// UserID = 0 means no ownership constraint; handlers set it to the caller's
// id for non-admins so the scoping happens in the query itself rather than
// by post-filtering rows.
type WorkoutSearchQuery struct {
	UserID   uint64
	From     time.Time // zero value -> no lower bound
	To       time.Time // zero value -> no upper bound
	Type     string    // substring match on workout_type
	Page     int
	PageSize int
}

// WorkoutRow is the listing projection returned to clients.
type WorkoutRow struct {
	ID              uint64 `json:"id"`
	UserID          uint64 `json:"userId"`
	Name            string `json:"name"`
	WorkoutDate     string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	Calories        int    `json:"calories"`
	WorkoutType     string `json:"type"`
	Notes           string `json:"notes,omitempty"`
}

// buildWorkoutWhere assembles the WHERE clause and bind arguments for a
// search query. Filters are ANDed together.
func buildWorkoutWhere(q WorkoutSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if q.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, q.UserID)
	}
	if !q.From.IsZero() {
		where = append(where, "workout_date >= ?")
		args = append(args, q.From)
	}
	if !q.To.IsZero() {
		where = append(where, "workout_date <= ?")
		args = append(args, q.To)
	}
	if q.Type != "" {
		where = append(where, "LOWER(workout_type) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Type)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search returns one page of matching workouts plus the total match count.
func (r *WorkoutRepo) Search(ctx context.Context, q WorkoutSearchQuery) ([]WorkoutRow, int64, error) {
	cond, args := buildWorkoutWhere(q)

	var total int64
	countSQL := "SELECT COUNT(*) FROM workouts WHERE " + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			id,
			user_id,
			name,
			DATE_FORMAT(workout_date, '%Y-%m-%d') AS workout_date,
			duration_minutes,
			calories,
			workout_type,
			COALESCE(notes, '') AS notes
		FROM workouts
		WHERE ` + cond + `
		ORDER BY workout_date DESC, id DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]WorkoutRow, 0, limit)
	for rows.Next() {
		var d WorkoutRow
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Name,
			&d.WorkoutDate,
			&d.DurationMinutes,
			&d.Calories,
			&d.WorkoutType,
			&d.Notes,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
