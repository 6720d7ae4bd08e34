package repository

import (
	"reflect"
	"testing"
	"time"
)

func TestBuildWorkoutWhere(t *testing.T) {
	from := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		q        WorkoutSearchQuery
		wantCond string
		wantArgs []any
	}{
		{
			"no filters",
			WorkoutSearchQuery{},
			"1=1",
			[]any{},
		},
		{
			"owner only",
			WorkoutSearchQuery{UserID: 7},
			"user_id = ?",
			[]any{uint64(7)},
		},
		{
			"from only",
			WorkoutSearchQuery{From: from},
			"workout_date >= ?",
			[]any{from},
		},
		{
			"to only",
			WorkoutSearchQuery{To: to},
			"workout_date <= ?",
			[]any{to},
		},
		{
			"type is lowered and wrapped",
			WorkoutSearchQuery{Type: "Run"},
			"LOWER(workout_type) LIKE ?",
			[]any{"%run%"},
		},
		{
			"date range",
			WorkoutSearchQuery{From: from, To: to},
			"workout_date >= ? AND workout_date <= ?",
			[]any{from, to},
		},
		{
			"all filters keep declaration order",
			WorkoutSearchQuery{UserID: 7, From: from, To: to, Type: "yoga"},
			"user_id = ? AND workout_date >= ? AND workout_date <= ? AND LOWER(workout_type) LIKE ?",
			[]any{uint64(7), from, to, "%yoga%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, args := buildWorkoutWhere(tt.q)
			if cond != tt.wantCond {
				t.Errorf("cond = %q, want %q", cond, tt.wantCond)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}
