package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/liftwise/liftstats/internal/telemetry/tracing"
	"github.com/liftwise/liftstats/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrExerciseTypeExists is returned when adding an exercise type
	// whose exercise id is already taken (unique violation).
	ErrExerciseTypeExists = errors.New("exercise type already exists")
)

// WorkoutParams filter workouts when listing them.
type WorkoutParams struct {
	ExerciseID string
	From       *time.Time
	To         *time.Time
}

type ListParams struct {
	WorkoutParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout WorkoutLog) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	now := time.Now()
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_log
				(date, exercises, duration_seconds, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $4)
			RETURNING id;`,
		workout.Date, exercisesJson, workout.DurationSec, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", id))

	workout.ID = id
	workout.CreatedAt = now
	workout.UpdatedAt = now
	return &workout, nil
}

func (r *Repo) Update(ctx context.Context, workout *WorkoutLog) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", workout.ID))

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_log SET date = $1, exercises = $2, duration_seconds = $3, updated_at = $4 WHERE id = $5;`,
		workout.Date, exercisesJson, workout.DurationSec, time.Now(), workout.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_log WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, date, exercises, duration_seconds, created_at, updated_at
			FROM workout_log
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	logs, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(logs) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &logs[0], nil
}

// ListAll returns all workout logs matching the given params,
// ordered by workout date, most recent first.
func (r *Repo) ListAll(ctx context.Context, params WorkoutParams) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", params.ExerciseID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, date, exercises, duration_seconds, created_at, updated_at
			FROM workout_log
				WHERE ($1::text = '' OR exercises @> $2::jsonb)
				AND ($3::timestamp IS NULL OR date >= $3)
				AND ($4::timestamp IS NULL OR date <= $4)
			ORDER BY date DESC;`,
		params.ExerciseID, exerciseFilterJson(params.ExerciseID),
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	logs, err := r.rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}
	return logs, nil
}

// List is like ListAll, but returns the specific PAGE of workouts,
// i.e. is used for pagination.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []WorkoutLog, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.Count(ctx, params.WorkoutParams)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}

	if countAll-offset < limit {
		offset = countAll - limit
	}

	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, date, exercises, duration_seconds, created_at, updated_at
			FROM workout_log
				WHERE ($1::text = '' OR exercises @> $2::jsonb)
			ORDER BY date DESC
			LIMIT $3
			OFFSET $4;`,
		params.ExerciseID, exerciseFilterJson(params.ExerciseID),
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	logs, err := r.rows2workouts(rows)
	if err != nil {
		return nil, -1, err
	}
	return logs, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params WorkoutParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM workout_log
			WHERE ($1::text = '' OR exercises @> $2::jsonb)
			AND ($3::timestamp IS NULL OR date >= $3)
			AND ($4::timestamp IS NULL OR date <= $4);
	`,
		params.ExerciseID, exerciseFilterJson(params.ExerciseID),
		params.From, params.To,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get workouts count")
}

// SnapshotVersion identifies the current state of the workout log list.
// Any add, update or delete produces a different version, which makes
// memoized analytics results keyed by it fall out of use naturally.
func (r *Repo) SnapshotVersion(ctx context.Context) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.snapshotversion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*), COALESCE(MAX(updated_at), 'epoch'::timestamptz) FROM workout_log;
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return "", err
	}

	if !rows.Next() {
		return "", errors.New("unexpected error, failed to get snapshot version")
	}

	var count int
	var maxUpdatedAt time.Time
	if err := rows.Scan(&count, &maxUpdatedAt); err != nil {
		return "", fmt.Errorf("rows scan: %w", err)
	}

	return fmt.Sprintf("%d-%d", count, maxUpdatedAt.UnixNano()), nil
}

// AddExerciseType registers a new exercise with the muscle groups it targets.
func (r *Repo) AddExerciseType(ctx context.Context, exerciseType ExerciseType) (_ *ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addexercisetype")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exerciseType.ExerciseID))

	now := time.Now()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO exercise_type
				(exercise_id, name, muscle_groups, created_at)
				VALUES ($1, $2, $3, $4);`,
		exerciseType.ExerciseID, exerciseType.Name, exerciseType.MuscleGroups, now,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, fmt.Errorf("%w: %s", ErrExerciseTypeExists, exerciseType.ExerciseID)
		}
		return nil, err
	}

	exerciseType.CreatedAt = now
	return &exerciseType, nil
}

// GetExerciseTypes returns all known exercise types with their muscle groups.
func (r *Repo) GetExerciseTypes(ctx context.Context) (_ []ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exercisetypes")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT exercise_id, name, muscle_groups, created_at FROM exercise_type ORDER BY name;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var types []ExerciseType
	for rows.Next() {
		var et ExerciseType
		if err := rows.Scan(&et.ExerciseID, &et.Name, &et.MuscleGroups, &et.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		types = append(types, et)
	}

	if types == nil {
		types = make([]ExerciseType, 0)
	}

	return types, nil
}

// MuscleGroupsMapping returns the exercise ID -> muscle groups mapping,
// used by the analytics engine to attribute set volume to muscle groups.
func (r *Repo) MuscleGroupsMapping(ctx context.Context) (map[string][]string, error) {
	types, err := r.GetExerciseTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("get exercise types: %w", err)
	}

	mapping := make(map[string][]string, len(types))
	for _, et := range types {
		mapping[et.ExerciseID] = et.MuscleGroups
	}
	return mapping, nil
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]WorkoutLog, error) {
	var logs []WorkoutLog
	for rows.Next() {
		var id int
		var date time.Time
		var exercisesBytes []byte
		var durationSec int
		var createdAt time.Time
		var updatedAt time.Time
		if err := rows.Scan(&id, &date, &exercisesBytes, &durationSec, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		w := WorkoutLog{
			ID:          id,
			Date:        date,
			DurationSec: durationSec,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		}

		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &w.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for workout %d: %w", id, err)
			}
		}
		if w.Exercises == nil {
			w.Exercises = make([]ExerciseEntry, 0)
		}

		logs = append(logs, w)
	}

	if logs == nil {
		logs = make([]WorkoutLog, 0)
	}

	return logs, nil
}

// exerciseFilterJson builds the JSONB containment filter used to match
// workouts that include the given exercise.
func exerciseFilterJson(exerciseID string) string {
	if exerciseID == "" {
		return `[]`
	}
	filter, _ := json.Marshal([]map[string]string{{"exerciseId": exerciseID}})
	return string(filter)
}
