package analytics

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/liftwise/liftstats/internal/telemetry/tracing"
	"github.com/liftwise/liftstats/pkg"
)

// Handler exposes the analytics engine over HTTP. All endpoints accept a
// "period" query parameter; unknown values fall back to the last 30 days.
type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) HandleDailyVolume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.dailyvolume")
	defer span.End()

	volumes, err := handler.analyzer.DailyVolume(ctx, periodFromRequest(r))
	if err != nil {
		log.Errorf("failed to get daily volume: %s", err)
		http.Error(w, "failed to get daily volume", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"dailyVolume": volumes})
}

func (handler *Handler) HandleWeeklyMuscleVolume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.weeklymusclevolume")
	defer span.End()

	weekly, err := handler.analyzer.WeeklyMuscleVolume(ctx, periodFromRequest(r))
	if err != nil {
		log.Errorf("failed to get weekly muscle volume: %s", err)
		http.Error(w, "failed to get weekly muscle volume", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"weeks": weekly})
}

func (handler *Handler) HandleWeeklyProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.weeklyprogression")
	defer span.End()

	progression, err := handler.analyzer.WeeklyProgression(ctx, periodFromRequest(r))
	if err != nil {
		log.Errorf("failed to get weekly progression: %s", err)
		http.Error(w, "failed to get weekly progression", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"weeks": progression})
}

func (handler *Handler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.grid")
	defer span.End()

	grid, err := handler.analyzer.Grid(ctx, periodFromRequest(r))
	if err != nil {
		log.Errorf("failed to build contribution grid: %s", err)
		http.Error(w, "failed to build contribution grid", http.StatusInternalServerError)
		return
	}

	writeJSON(w, grid)
}

func (handler *Handler) HandleExerciseTrend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.trend")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID := vars["exid"]
	if exerciseID == "" {
		http.Error(w, "exercise id empty", http.StatusBadRequest)
		return
	}

	trend, err := handler.analyzer.ExerciseTrend(ctx, exerciseID, periodFromRequest(r))
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			http.Error(w, "invalid period", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get trend for exercise [%s]: %s", exerciseID, err)
		http.Error(w, "failed to get exercise trend", http.StatusInternalServerError)
		return
	}

	writeJSON(w, trend)
}

func (handler *Handler) HandleProgressPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.progress")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID := vars["exid"]
	if exerciseID == "" {
		http.Error(w, "exercise id empty", http.StatusBadRequest)
		return
	}

	points, err := handler.analyzer.ProgressPoints(ctx, exerciseID, periodFromRequest(r))
	if err != nil {
		log.Errorf("failed to get progress for exercise [%s]: %s", exerciseID, err)
		http.Error(w, "failed to get exercise progress", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"points": points})
}

// periodFromRequest never fails: an absent or unknown period selector means
// the default period.
func periodFromRequest(r *http.Request) Period {
	return ParsePeriodID(r.URL.Query().Get("period"))
}

func writeJSON(w http.ResponseWriter, response any) {
	responseJson, err := json.Marshal(response)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponse(w, responseJson)
}
