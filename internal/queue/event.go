// Package queue defines message payloads exchanged over the message broker.
package queue

// WorkoutRecordedEvent is published when a workout is successfully created.
// It contains enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type WorkoutRecordedEvent struct {
	EventID         string `json:"event_id"`
	WorkoutID       uint64 `json:"workout_id"`
	UserID          uint64 `json:"user_id"`
	CreatedBy       uint64 `json:"created_by"`
	Name            string `json:"name"`
	WorkoutType     string `json:"workout_type"`
	WorkoutDate     string `json:"workout_date"`
	DurationMinutes int    `json:"duration_minutes"`
	Calories        int    `json:"calories"`
	RecordedAt      string `json:"recorded_at"`
}
