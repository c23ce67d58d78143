package analytics

import (
	"sort"
	"time"

	"github.com/liftwise/liftstats/internal/workouts"
)

// maxRepsForEstimate is where the Epley formula stops being useful:
// past 15 reps the estimate drifts too far from a real single.
const maxRepsForEstimate = 15

// Estimate1RM estimates the one-rep max for a set using the Epley formula:
// 1RM = weight x (1 + reps/30). Returns ok=false for non-positive weight,
// reps below 1, or reps above 15. No rounding here, callers round for display.
func Estimate1RM(weight float64, reps int) (float64, bool) {
	if weight <= 0 || reps < 1 || reps > maxRepsForEstimate {
		return 0, false
	}
	return weight * (1 + float64(reps)/30), true
}

// FindBestSet returns the set with the highest estimated 1RM. Ties go to the
// heavier set, then to the earlier one. Returns nil when no set has a valid
// 1RM estimate.
func FindBestSet(sets []workouts.SetEntry) *workouts.SetEntry {
	var best *workouts.SetEntry
	var best1RM float64

	for i := range sets {
		oneRM, ok := Estimate1RM(sets[i].Weight, sets[i].Reps)
		if !ok {
			continue
		}
		if best == nil || oneRM > best1RM || (oneRM == best1RM && sets[i].Weight > best.Weight) {
			b := sets[i]
			best = &b
			best1RM = oneRM
		}
	}

	return best
}

// ProgressPoint is one scalar value (e.g. estimated 1RM) per workout session.
type ProgressPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BuildProgressPoints derives the per-session best-set 1RM series for one
// exercise, restricted to workouts within the range, in chronological order.
// Sessions where the exercise has no valid set produce no point.
func BuildProgressPoints(logs []workouts.WorkoutLog, exerciseID string, r DateRange) []ProgressPoint {
	points := make([]ProgressPoint, 0)

	for _, w := range logs {
		if !r.ContainsDay(w.Date) {
			continue
		}

		// a session may log the same exercise more than once, take the
		// best set over all of its entries
		var sessionBest float64
		var found bool
		for _, ex := range w.Exercises {
			if ex.ExerciseID != exerciseID {
				continue
			}
			if best := FindBestSet(ex.Sets); best != nil {
				oneRM, _ := Estimate1RM(best.Weight, best.Reps)
				if !found || oneRM > sessionBest {
					sessionBest = oneRM
					found = true
				}
			}
		}

		if found {
			points = append(points, ProgressPoint{Date: w.Date, Value: sessionBest})
		}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}
