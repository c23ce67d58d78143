package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/liftwise/liftstats/internal/telemetry/metrics"
	"github.com/liftwise/liftstats/internal/telemetry/tracing"
	"github.com/liftwise/liftstats/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, workout WorkoutLog) (*WorkoutLog, error)
	Get(ctx context.Context, id int) (*WorkoutLog, error)
	List(ctx context.Context, params ListParams) (_ []WorkoutLog, total int, err error)
	ListAll(ctx context.Context, params WorkoutParams) (_ []WorkoutLog, err error)
	Update(ctx context.Context, workout *WorkoutLog) error
	Delete(ctx context.Context, id int) error
	GetExerciseTypes(ctx context.Context) ([]ExerciseType, error)
	AddExerciseType(ctx context.Context, exerciseType ExerciseType) (*ExerciseType, error)
}

type DeleteWorkoutResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateWorkoutResponse struct {
	UpdatedID int `json:"updatedId"`
}

type AddWorkoutResponse struct {
	WorkoutLog
	CountThisWeek int `json:"countThisWeek"`
}

type ListResponse struct {
	Workouts []WorkoutLog `json:"workouts"`
	Total    int          `json:"total"`
}

type Handler struct {
	repo    workoutsRepo
	metrics *metrics.Manager
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout WorkoutLog
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if len(workout.Exercises) == 0 {
		http.Error(w, "error, workout has no exercises", http.StatusBadRequest)
		return
	}
	for _, ex := range workout.Exercises {
		if ex.ExerciseID == "" {
			http.Error(w, "error, exercise id empty", http.StatusBadRequest)
			return
		}
	}

	if workout.Date.IsZero() {
		workout.Date = time.Now()
	}

	addedWorkout, err := handler.repo.Add(ctx, workout)
	if err != nil {
		log.Errorf("failed to add new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsAdded.Inc()

	// tell the client how many workouts were logged in the last 7 days
	weekAgo := time.Now().AddDate(0, 0, -7)
	now := time.Now()
	workoutsThisWeek, err := handler.repo.ListAll(ctx, WorkoutParams{
		From: &weekAgo,
		To:   &now,
	})
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to get workouts this week: %s", err)
	}

	addWorkoutResponse := AddWorkoutResponse{
		WorkoutLog:    *addedWorkout,
		CountThisWeek: len(workoutsThisWeek),
	}

	addedWorkoutJson, err := json.Marshal(addWorkoutResponse)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %d", addedWorkout.ID)

	w.WriteHeader(http.StatusCreated)
	pkg.WriteJSONResponse(w, addedWorkoutJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %d: %s", id, err)
		http.Error(w, "failed to get workout", http.StatusInternalServerError)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout %d: %s", id, err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, workoutJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size < 1 {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}

	workouts, total, err := handler.repo.List(ctx, ListParams{
		WorkoutParams: WorkoutParams{
			ExerciseID: r.URL.Query().Get("exercise_id"),
		},
		Page: page,
		Size: size,
	})
	if err != nil {
		log.Errorf("failed to list workouts: %s", err)
		http.Error(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Workouts: workouts,
		Total:    total,
	})
	if err != nil {
		log.Errorf("failed to marshal workouts list: %s", err)
		http.Error(w, "failed to marshal workouts list", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, listResponseJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout WorkoutLog
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("update workout, unmarshal json params: %s", err)
		http.Error(w, "update workout failed", http.StatusBadRequest)
		return
	}

	if workout.ID <= 0 {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &workout); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update workout %d: %s", workout.ID, err)
		http.Error(w, "failed to update workout", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(UpdateWorkoutResponse{UpdatedID: workout.ID})
	if err != nil {
		log.Errorf("failed to marshal update workout response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, respJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d: %s", id, err)
		http.Error(w, "failed to delete workout", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteWorkoutResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete workout response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, respJson)
}

// HandleExerciseTypes returns all known exercise types with their muscle groups.
func (handler *Handler) HandleExerciseTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.exercisetypes")
	defer span.End()

	types, err := handler.repo.GetExerciseTypes(ctx)
	if err != nil {
		log.Errorf("failed to get exercise types: %s", err)
		http.Error(w, "failed to get exercise types", http.StatusInternalServerError)
		return
	}

	typesJson, err := json.Marshal(types)
	if err != nil {
		log.Errorf("failed to marshal exercise types: %s", err)
		http.Error(w, "failed to marshal exercise types", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, typesJson)
}

// HandleAddExerciseType registers a new exercise type. Exercise ids are
// unique, adding one that is already known is a conflict.
func (handler *Handler) HandleAddExerciseType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addexercisetype")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var exerciseType ExerciseType
	if err := json.NewDecoder(r.Body).Decode(&exerciseType); err != nil {
		log.Tracef("new exercise type, unmarshal json params: %s", err)
		http.Error(w, "add exercise type failed", http.StatusBadRequest)
		return
	}

	if exerciseType.ExerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}
	if exerciseType.Name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.AddExerciseType(ctx, exerciseType)
	if err != nil {
		if errors.Is(err, ErrExerciseTypeExists) {
			http.Error(w, "error, exercise type already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add exercise type [%s]: %s", exerciseType.ExerciseID, err)
		http.Error(w, "error, failed to add exercise type", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal exercise type: %s", err)
		http.Error(w, "error, failed to add exercise type", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	pkg.WriteJSONResponse(w, addedJson)
}
