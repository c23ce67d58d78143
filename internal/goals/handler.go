package goals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/liftwise/liftstats/internal/analytics"
	"github.com/liftwise/liftstats/internal/telemetry/metrics"
	"github.com/liftwise/liftstats/internal/telemetry/tracing"
	"github.com/liftwise/liftstats/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=goals_mocks_test.go -package=goals_test

type goalsRepo interface {
	Add(ctx context.Context, goal Goal) (*Goal, error)
	Get(ctx context.Context, id int) (*Goal, error)
	ListAll(ctx context.Context) ([]Goal, error)
	Delete(ctx context.Context, id int) error
}

type forecaster interface {
	GoalForecast(
		ctx context.Context,
		exerciseID string,
		targetValue float64,
		deadline *time.Time,
		period analytics.Period,
	) (*analytics.GoalForecast, error)
}

type DeleteGoalResponse struct {
	DeletedID int `json:"deletedId"`
}

type ForecastResponse struct {
	Goal     Goal                    `json:"goal"`
	Forecast *analytics.GoalForecast `json:"forecast"`
}

type Handler struct {
	repo       goalsRepo
	forecaster forecaster
	metrics    *metrics.Manager
}

func NewHandler(repo goalsRepo, forecaster forecaster, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:       repo,
		forecaster: forecaster,
		metrics:    metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Tracef("new goal, unmarshal json params: %s", err)
		http.Error(w, "add goal failed", http.StatusBadRequest)
		return
	}

	if goal.ExerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}
	if goal.TargetValue <= 0 {
		http.Error(w, "error, target value must be positive", http.StatusBadRequest)
		return
	}

	addedGoal, err := handler.repo.Add(ctx, goal)
	if err != nil {
		if errors.Is(err, ErrUnknownExercise) {
			http.Error(w, "error, unknown exercise id", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add new goal [%s]: %s", goal.ExerciseID, err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGoalsAdded.Inc()

	addedGoalJson, err := json.Marshal(addedGoal)
	if err != nil {
		log.Errorf("failed to marshal new goal: %s", err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	pkg.WriteJSONResponse(w, addedGoalJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.list")
	defer span.End()

	goals, err := handler.repo.ListAll(ctx)
	if err != nil {
		log.Errorf("failed to list goals: %s", err)
		http.Error(w, "failed to list goals", http.StatusInternalServerError)
		return
	}

	goalsJson, err := json.Marshal(map[string]any{"goals": goals})
	if err != nil {
		log.Errorf("failed to marshal goals: %s", err)
		http.Error(w, "failed to marshal goals", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, goalsJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete goal %d: %s", id, err)
		http.Error(w, "failed to delete goal", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteGoalResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete goal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, respJson)
}

// HandleForecast runs the goal forecast for one goal: predicted completion
// date, current pace and the pace its deadline requires.
func (handler *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.forecast")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get goal %d: %s", id, err)
		http.Error(w, "failed to get goal", http.StatusInternalServerError)
		return
	}

	period := analytics.ParsePeriodID(r.URL.Query().Get("period"))
	forecast, err := handler.forecaster.GoalForecast(ctx, goal.ExerciseID, goal.TargetValue, goal.Deadline, period)
	if err != nil {
		log.Errorf("failed to forecast goal %d: %s", id, err)
		http.Error(w, "failed to forecast goal", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ForecastResponse{
		Goal:     *goal,
		Forecast: forecast,
	})
	if err != nil {
		log.Errorf("failed to marshal goal forecast: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, respJson)
}
