package goals

import "time"

// Goal is a target one-rep max for an exercise, optionally with a deadline.
type Goal struct {
	ID          int        `json:"id"`
	ExerciseID  string     `json:"exerciseId"`
	Name        string     `json:"name"`
	TargetValue float64    `json:"targetValue"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
