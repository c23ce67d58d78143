package analytics

import (
	"time"

	"github.com/liftwise/liftstats/internal/workouts"
)

// DailyVolumeMap maps an ISO local date string ("2006-01-02") to the summed
// training volume of that day. Days without workouts have no key.
type DailyVolumeMap map[string]float64

// Total sums the volume over all days in the map.
func (m DailyVolumeMap) Total() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// BuildDailyVolumeMap buckets the workouts within the range into per-day
// volume sums. Bucketing is done on local calendar days: keying by UTC
// would shift evening workouts into the wrong day in most timezones.
func BuildDailyVolumeMap(logs []workouts.WorkoutLog, r DateRange) DailyVolumeMap {
	volumePerDay := make(DailyVolumeMap)
	for _, w := range logs {
		if !r.ContainsDay(w.Date) {
			continue
		}
		volume := w.TotalVolume()
		if volume == 0 {
			continue
		}
		volumePerDay[dayKey(w.Date)] += volume
	}
	return volumePerDay
}

// MuscleGroupOf resolves the muscle groups an exercise targets. Passed in
// explicitly so the aggregation stays independent of any exercise registry.
type MuscleGroupOf func(exerciseID string) []string

// WeeklyMuscleVolume is the per-muscle-group volume of one ISO week.
// Week is the Monday of the week as an ISO local date string.
type WeeklyMuscleVolume struct {
	Week    string             `json:"week"`
	Volumes map[string]float64 `json:"volumes"`
}

// BuildWeeklyMuscleVolume groups workout volume by ISO week (starting Monday)
// and muscle group. An exercise's full set volume counts towards every muscle
// group it targets, with no fractional split; summing across muscles therefore
// exceeds the raw total on multi-muscle exercises. That matches how the
// dashboards define muscle volume.
// Weeks inside the covered span with no workouts still appear, zero-filled,
// so charts get a continuous axis.
func BuildWeeklyMuscleVolume(
	logs []workouts.WorkoutLog,
	r DateRange,
	muscleGroupOf MuscleGroupOf,
) []WeeklyMuscleVolume {
	week2volumes := make(map[string]map[string]float64)
	allMuscles := make(map[string]bool)

	for _, w := range logs {
		if !r.ContainsDay(w.Date) {
			continue
		}
		week := dayKey(weekStart(w.Date))
		if week2volumes[week] == nil {
			week2volumes[week] = make(map[string]float64)
		}
		for _, ex := range w.Exercises {
			var exVolume float64
			for _, set := range ex.Sets {
				exVolume += set.Volume()
			}
			for _, muscle := range muscleGroupOf(ex.ExerciseID) {
				week2volumes[week][muscle] += exVolume
				allMuscles[muscle] = true
			}
		}
	}

	weekly := make([]WeeklyMuscleVolume, 0)
	for _, week := range enumerateWeeks(logs, r) {
		volumes := make(map[string]float64, len(allMuscles))
		for muscle := range allMuscles {
			volumes[muscle] = 0
		}
		for muscle, volume := range week2volumes[week] {
			volumes[muscle] = volume
		}
		weekly = append(weekly, WeeklyMuscleVolume{
			Week:    week,
			Volumes: volumes,
		})
	}

	return weekly
}

type ProgressionStatus string

const (
	StatusProgressing ProgressionStatus = "progressing"
	StatusRegressing  ProgressionStatus = "regressing"
	StatusMaintaining ProgressionStatus = "maintaining"
)

// progressionThresholdPercent is the week-over-week volume change band
// within which training is considered maintained. Fixed domain constant,
// shared with the trend classification.
const progressionThresholdPercent = 2.5

// WeeklyVolume is the total volume of one ISO week together with the
// percent change against the previous week.
type WeeklyVolume struct {
	Week   string            `json:"week"`
	Volume float64           `json:"volume"`
	Change float64           `json:"change"`
	Status ProgressionStatus `json:"status"`
}

// BuildWeeklyVolumeProgression computes the week-over-week volume progression
// within the range. The first week has change 0 and status maintaining.
func BuildWeeklyVolumeProgression(logs []workouts.WorkoutLog, r DateRange) []WeeklyVolume {
	week2volume := make(map[string]float64)
	for _, w := range logs {
		if !r.ContainsDay(w.Date) {
			continue
		}
		week2volume[dayKey(weekStart(w.Date))] += w.TotalVolume()
	}

	progression := make([]WeeklyVolume, 0)
	for i, week := range enumerateWeeks(logs, r) {
		wv := WeeklyVolume{
			Week:   week,
			Volume: week2volume[week],
			Status: StatusMaintaining,
		}

		if i > 0 {
			prev := progression[i-1].Volume
			if prev != 0 {
				wv.Change = (wv.Volume - prev) / prev * 100
			}
			switch {
			case wv.Change >= progressionThresholdPercent:
				wv.Status = StatusProgressing
			case wv.Change <= -progressionThresholdPercent:
				wv.Status = StatusRegressing
			}
		}

		progression = append(progression, wv)
	}

	return progression
}

// enumerateWeeks lists the Mondays (as day keys) of every ISO week the range
// covers, in order. For open-ended ranges (all time), enumeration starts at
// the earliest in-range workout instead of the sentinel start date, so that
// the result is not padded with decades of empty weeks.
func enumerateWeeks(logs []workouts.WorkoutLog, r DateRange) []string {
	start := r.Start
	if start.Equal(allTimeStart) {
		earliest := earliestInRange(logs, r)
		if earliest == nil {
			return nil
		}
		start = *earliest
	}

	var weeks []string
	for week := weekStart(start); !week.After(r.End); week = week.AddDate(0, 0, 7) {
		weeks = append(weeks, dayKey(week))
	}
	return weeks
}

func earliestInRange(logs []workouts.WorkoutLog, r DateRange) *time.Time {
	var earliest *time.Time
	for _, w := range logs {
		if !r.ContainsDay(w.Date) {
			continue
		}
		if earliest == nil || w.Date.Before(*earliest) {
			d := w.Date
			earliest = &d
		}
	}
	return earliest
}
