package analytics

import (
	"time"
)

// pacePoints is how many of the trailing sessions feed the current-pace
// estimate.
const pacePoints = 4

// GoalForecast predicts when a strength goal will be reached and compares
// the current pace against the pace the deadline demands. Nil fields mean
// "no signal", which is a normal state with sparse history, not an error.
type GoalForecast struct {
	PredictedCompletionDate *time.Time `json:"predictedCompletionDate"`
	CurrentPacePerWeek      float64    `json:"currentPacePerWeek"`
	RequiredPacePerWeek     *float64   `json:"requiredPacePerWeek"`
	OnTrack                 *bool      `json:"onTrack"`
}

// PredictCompletion extrapolates the fitted trend to the session index where
// the target value is reached, then converts that index back to a calendar
// date using the average interval between the observed sessions.
//
// Returns nil when there are fewer than 3 points, when the trend is flat, or
// when the trend moves away from the target (unreachable under current trend).
func PredictCompletion(points []ProgressPoint, targetValue float64) *time.Time {
	fit := FitTrend(points)
	if fit.Classification == TrendInsufficientData || fit.Slope == 0 {
		return nil
	}

	lastIdx := float64(len(points) - 1)
	lastFitted := fit.Intercept + fit.Slope*lastIdx

	// sessions still needed, on the index scale
	remainingIdx := (targetValue - lastFitted) / fit.Slope
	if remainingIdx < 0 {
		return nil
	}

	first := points[0].Date
	last := points[len(points)-1].Date
	avgInterval := last.Sub(first) / time.Duration(len(points)-1)
	if avgInterval <= 0 {
		return nil
	}

	completion := last.Add(time.Duration(remainingIdx * float64(avgInterval)))
	return &completion
}

// RequiredPacePerWeek is the weekly value gain needed to move from the
// current value to the target within the remaining days. Returns nil when
// the deadline has passed or is today; callers must treat that case
// explicitly instead of dividing by zero. A negative result means the target
// is already exceeded and is surfaced as-is ("ahead of schedule"), not
// clamped to zero.
func RequiredPacePerWeek(currentValue, targetValue float64, daysRemaining int) *float64 {
	if daysRemaining <= 0 {
		return nil
	}
	pace := (targetValue - currentValue) / (float64(daysRemaining) / 7)
	return &pace
}

// CurrentPacePerWeek is the average value change per week over the trailing
// sessions (up to 4), scaled by the actual elapsed days between the first
// and last of them rather than an assumed fixed cadence. Returns 0 when
// there are fewer than two usable points or no elapsed time between them.
func CurrentPacePerWeek(points []ProgressPoint) float64 {
	if len(points) < 2 {
		return 0
	}

	window := points
	if len(window) > pacePoints {
		window = window[len(window)-pacePoints:]
	}

	first := window[0]
	last := window[len(window)-1]
	elapsedDays := last.Date.Sub(first.Date).Hours() / 24
	if elapsedDays <= 0 {
		return 0
	}

	return (last.Value - first.Value) / elapsedDays * 7
}

// BuildGoalForecast assembles the full forecast for a goal. The deadline is
// optional; without one there is no required pace and no on-track verdict.
// "now" is passed in to keep the computation deterministic.
func BuildGoalForecast(points []ProgressPoint, targetValue float64, deadline *time.Time, now time.Time) GoalForecast {
	forecast := GoalForecast{
		CurrentPacePerWeek:      CurrentPacePerWeek(points),
		PredictedCompletionDate: PredictCompletion(points, targetValue),
	}

	if deadline != nil && len(points) > 0 {
		currentValue := points[len(points)-1].Value
		daysRemaining := int(dayStart(*deadline).Sub(dayStart(now)).Hours() / 24)
		forecast.RequiredPacePerWeek = RequiredPacePerWeek(currentValue, targetValue, daysRemaining)
	}

	if deadline != nil && forecast.PredictedCompletionDate != nil {
		onTrack := !forecast.PredictedCompletionDate.After(*deadline)
		forecast.OnTrack = &onTrack
	}

	return forecast
}
