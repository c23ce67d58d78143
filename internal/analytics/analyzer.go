package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/liftwise/liftstats/internal/telemetry/metrics"
	"github.com/liftwise/liftstats/internal/telemetry/tracing"
	"github.com/liftwise/liftstats/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=analytics_test

const (
	analyticsCacheSize   = 10 * 1024 * 1024 // 10 MB
	analyticsCacheExpire = 10 * 60          // seconds
)

type analyzerRepo interface {
	ListAll(ctx context.Context, params workouts.WorkoutParams) ([]workouts.WorkoutLog, error)
	SnapshotVersion(ctx context.Context) (string, error)
	MuscleGroupsMapping(ctx context.Context) (map[string][]string, error)
}

// Analyzer runs the pure analytics engine against the workout log store.
// Results are memoized on (operation, exercise, period, reference day,
// log snapshot version): any change to the logs yields a new version, so
// stale entries are simply never asked for again and expire on their own.
type Analyzer struct {
	repo    analyzerRepo
	cache   *freecache.Cache
	metrics *metrics.Manager
	now     func() time.Time
}

func NewAnalyzer(repo analyzerRepo, metricsManager *metrics.Manager) *Analyzer {
	return &Analyzer{
		repo:    repo,
		cache:   freecache.NewCache(analyticsCacheSize),
		metrics: metricsManager,
		now:     time.Now,
	}
}

// DailyVolume returns the per-day volume map for the period.
func (a *Analyzer) DailyVolume(ctx context.Context, period Period) (_ DailyVolumeMap, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.dailyvolume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("period", period.ID()))

	var result DailyVolumeMap
	err = a.memoized(ctx, "daily-volume", "", period, &result, func(logs []workouts.WorkoutLog, r DateRange) (any, error) {
		return BuildDailyVolumeMap(logs, r), nil
	})
	return result, err
}

// WeeklyMuscleVolume returns per-week, per-muscle-group volume rows for the period.
func (a *Analyzer) WeeklyMuscleVolume(ctx context.Context, period Period) (_ []WeeklyMuscleVolume, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.weeklymusclevolume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("period", period.ID()))

	var result []WeeklyMuscleVolume
	err = a.memoized(ctx, "weekly-muscle-volume", "", period, &result, func(logs []workouts.WorkoutLog, r DateRange) (any, error) {
		mapping, err := a.repo.MuscleGroupsMapping(ctx)
		if err != nil {
			return nil, fmt.Errorf("muscle groups mapping: %w", err)
		}
		return BuildWeeklyMuscleVolume(logs, r, func(exerciseID string) []string {
			return mapping[exerciseID]
		}), nil
	})
	return result, err
}

// WeeklyProgression returns week-over-week volume progression rows for the period.
func (a *Analyzer) WeeklyProgression(ctx context.Context, period Period) (_ []WeeklyVolume, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.weeklyprogression")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("period", period.ID()))

	var result []WeeklyVolume
	err = a.memoized(ctx, "weekly-progression", "", period, &result, func(logs []workouts.WorkoutLog, r DateRange) (any, error) {
		return BuildWeeklyVolumeProgression(logs, r), nil
	})
	return result, err
}

// Grid returns the contribution grid for the period.
func (a *Analyzer) Grid(ctx context.Context, period Period) (_ *ContributionGrid, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.grid")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("period", period.ID()))

	var result ContributionGrid
	err = a.memoized(ctx, "grid", "", period, &result, func(logs []workouts.WorkoutLog, r DateRange) (any, error) {
		return BuildContributionGrid(BuildDailyVolumeMap(logs, r), r, a.now()), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExerciseTrend fits the strength trend for one exercise over the period,
// using the per-session best-set 1RM series.
func (a *Analyzer) ExerciseTrend(ctx context.Context, exerciseID string, period Period) (_ *TrendResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.exercisetrend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exerciseID))
	span.SetAttributes(attribute.String("period", period.ID()))

	var result TrendResult
	err = a.memoized(ctx, "trend", exerciseID, period, &result, func(logs []workouts.WorkoutLog, r DateRange) (any, error) {
		return FitTrend(BuildProgressPoints(logs, exerciseID, r)), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GoalForecast forecasts when the target 1RM for an exercise will be reached,
// based on the trend over the given period.
func (a *Analyzer) GoalForecast(
	ctx context.Context,
	exerciseID string,
	targetValue float64,
	deadline *time.Time,
	period Period,
) (_ *GoalForecast, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.goalforecast")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exerciseID))
	span.SetAttributes(attribute.Float64("target", targetValue))

	// the target and deadline are inputs of the forecast, so they belong
	// in the memoization key alongside the exercise
	deadlineKey := "none"
	if deadline != nil {
		deadlineKey = dayKey(*deadline)
	}
	op := fmt.Sprintf("forecast::%g::%s", targetValue, deadlineKey)

	var result GoalForecast
	err = a.memoized(ctx, op, exerciseID, period, &result, func(logs []workouts.WorkoutLog, r DateRange) (any, error) {
		points := BuildProgressPoints(logs, exerciseID, r)
		return BuildGoalForecast(points, targetValue, deadline, a.now()), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ProgressPoints exposes the per-session 1RM series itself, for progress charts.
func (a *Analyzer) ProgressPoints(ctx context.Context, exerciseID string, period Period) (_ []ProgressPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.progresspoints")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exerciseID))

	var result []ProgressPoint
	err = a.memoized(ctx, "progress-points", exerciseID, period, &result, func(logs []workouts.WorkoutLog, r DateRange) (any, error) {
		return BuildProgressPoints(logs, exerciseID, r), nil
	})
	return result, err
}

// memoized runs compute over the current log snapshot unless a result for
// the same (op, exercise, period, reference day, snapshot version) is cached.
// The reference day is part of the key because rolling periods and the
// today marker resolve differently on each calendar day, even when the logs
// have not changed. Results are marshaled fully before being stored or
// returned, so consumers never observe a half-updated value.
func (a *Analyzer) memoized(
	ctx context.Context,
	op string,
	exerciseID string,
	period Period,
	out any,
	compute func(logs []workouts.WorkoutLog, r DateRange) (any, error),
) error {
	now := a.now()
	r, err := ResolvePeriod(period, now)
	if err != nil {
		return err
	}

	version, err := a.repo.SnapshotVersion(ctx)
	if err != nil {
		return fmt.Errorf("snapshot version: %w", err)
	}

	cacheKey := []byte(fmt.Sprintf("%s::%s::%s::%s::%s", op, exerciseID, period.ID(), dayKey(now), version))
	if cached, err := a.cache.Get(cacheKey); err == nil {
		if err := json.Unmarshal(cached, out); err == nil {
			a.metrics.CounterAnalyticsCacheHits.Inc()
			return nil
		}
		log.Warnf("analytics cache: dropping undecodable entry for %s", cacheKey)
		a.cache.Del(cacheKey)
	}

	a.metrics.CounterAnalyticsCacheMisses.Inc()
	a.metrics.CounterAnalyticsComputed.WithLabelValues(op).Inc()

	logs, err := a.repo.ListAll(ctx, workouts.WorkoutParams{ExerciseID: exerciseID})
	if err != nil {
		return fmt.Errorf("list workouts: %w", err)
	}

	result, err := compute(logs, r)
	if err != nil {
		return err
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := a.cache.Set(cacheKey, resultJson, analyticsCacheExpire); err != nil {
		// a full cache is not a reason to fail the computation
		log.Tracef("analytics cache set: %s", err)
	}

	return json.Unmarshal(resultJson, out)
}
