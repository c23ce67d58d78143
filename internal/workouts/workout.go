package workouts

import "time"

// SetEntry is a single logged set. Once a workout is completed,
// its sets are never mutated.
type SetEntry struct {
	Weight float64  `json:"weight"`
	Reps   int      `json:"reps"`
	RPE    *float64 `json:"rpe,omitempty"`
}

// Volume is the classic training volume of the set: weight x reps.
func (s SetEntry) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ExerciseEntry groups the sets of one exercise within a workout.
type ExerciseEntry struct {
	ExerciseID   string     `json:"exerciseId"`
	ExerciseName string     `json:"exerciseName"`
	Sets         []SetEntry `json:"sets"`
}

// WorkoutLog is one logged training session. It is the append-only
// input to the analytics engine; the engine never mutates it.
type WorkoutLog struct {
	ID          int             `json:"id"`
	Date        time.Time       `json:"date"`
	Exercises   []ExerciseEntry `json:"exercises"`
	DurationSec int             `json:"durationSec,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TotalVolume sums weight x reps over all sets of all exercises.
func (w WorkoutLog) TotalVolume() float64 {
	var total float64
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			total += set.Volume()
		}
	}
	return total
}

// ExerciseType describes a known exercise and the muscle groups it targets.
type ExerciseType struct {
	ExerciseID   string    `json:"exerciseId"`
	Name         string    `json:"name"`
	MuscleGroups []string  `json:"muscleGroups"`
	CreatedAt    time.Time `json:"createdAt"`
}
