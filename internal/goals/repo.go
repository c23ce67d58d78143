package goals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/liftwise/liftstats/internal/telemetry/tracing"
	"github.com/liftwise/liftstats/pkg"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	// ErrUnknownExercise is returned when a goal references an exercise id
	// that has no exercise_type row (foreign key violation).
	ErrUnknownExercise = errors.New("unknown exercise")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := time.Now()
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO goal
				(exercise_id, name, target_value, deadline, created_at)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		goal.ExerciseID, goal.Name, goal.TargetValue, goal.Deadline, now,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExercise, goal.ExerciseID)
		}
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		// pgx surfaces insert errors only after the rows are consumed
		if err := rows.Err(); err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownExercise, goal.ExerciseID)
			}
			return nil, err
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("goal.id", id))

	goal.ID = id
	goal.CreatedAt = now
	return &goal, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, exercise_id, name, target_value, deadline, created_at FROM goal WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	goals, err := r.rows2goals(rows)
	if err != nil {
		return nil, err
	}

	if len(goals) != 1 {
		return nil, ErrGoalNotFound
	}

	return &goals[0], nil
}

func (r *Repo) ListAll(ctx context.Context) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, exercise_id, name, target_value, deadline, created_at FROM goal ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return r.rows2goals(rows)
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM goal WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) rows2goals(rows pgx.Rows) ([]Goal, error) {
	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.ExerciseID, &g.Name, &g.TargetValue, &g.Deadline, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	if goals == nil {
		goals = make([]Goal, 0)
	}

	return goals, nil
}
