package analytics_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftwise/liftstats/internal/analytics"
	"github.com/liftwise/liftstats/internal/telemetry/metrics"
	"github.com/liftwise/liftstats/internal/workouts"
)

func newTestHandler(t *testing.T) (*analytics.Handler, *MockanalyzerRepo) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repoMock := NewMockanalyzerRepo(ctrl)
	analyzer := analytics.NewAnalyzer(repoMock, metrics.NewTestManager())
	return analytics.NewHandler(analyzer), repoMock
}

func TestHandler_HandleDailyVolume(t *testing.T) {
	h, repoMock := newTestHandler(t)

	repoMock.EXPECT().SnapshotVersion(gomock.Any()).Return("1-1", nil)
	repoMock.EXPECT().ListAll(gomock.Any(), workouts.WorkoutParams{}).
		Return([]workouts.WorkoutLog{benchSession(1, 100)}, nil)

	req, err := http.NewRequest("GET", "/stats/volume/daily?period=7d", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	h.HandleDailyVolume(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DailyVolume map[string]float64 `json:"dailyVolume"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.DailyVolume, 1)
	for _, volume := range resp.DailyVolume {
		assert.InDelta(t, 500, volume, 0.001)
	}
}

func TestHandler_HandleWeeklyProgression(t *testing.T) {
	h, repoMock := newTestHandler(t)

	repoMock.EXPECT().SnapshotVersion(gomock.Any()).Return("1-1", nil)
	repoMock.EXPECT().ListAll(gomock.Any(), workouts.WorkoutParams{}).
		Return([]workouts.WorkoutLog{benchSession(8, 100), benchSession(1, 110)}, nil)

	req, err := http.NewRequest("GET", "/stats/progression", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	h.HandleWeeklyProgression(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Weeks []analytics.WeeklyVolume `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Weeks)
}

func TestHandler_HandleGrid(t *testing.T) {
	h, repoMock := newTestHandler(t)

	repoMock.EXPECT().SnapshotVersion(gomock.Any()).Return("1-1", nil)
	repoMock.EXPECT().ListAll(gomock.Any(), workouts.WorkoutParams{}).
		Return([]workouts.WorkoutLog{benchSession(1, 100)}, nil)

	req, err := http.NewRequest("GET", "/stats/grid?period=30d", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	h.HandleGrid(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var grid analytics.ContributionGrid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grid))
	require.NotEmpty(t, grid.Weeks)
	for _, column := range grid.Weeks {
		assert.Len(t, column, 7)
	}
}

func TestHandler_HandleExerciseTrend(t *testing.T) {
	h, repoMock := newTestHandler(t)

	repoMock.EXPECT().SnapshotVersion(gomock.Any()).Return("3-1", nil)
	repoMock.EXPECT().
		ListAll(gomock.Any(), workouts.WorkoutParams{ExerciseID: "bench-press"}).
		Return([]workouts.WorkoutLog{
			benchSession(14, 100),
			benchSession(7, 105),
			benchSession(0, 110),
		}, nil)

	req, err := http.NewRequest("GET", "/stats/exercise/bench-press/trend", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"exid": "bench-press"})
	rec := httptest.NewRecorder()

	h.HandleExerciseTrend(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var trend analytics.TrendResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trend))
	assert.Equal(t, analytics.TrendUp, trend.Classification)
}

func TestHandler_HandleExerciseTrend_EmptyExerciseID(t *testing.T) {
	h, _ := newTestHandler(t)

	req, err := http.NewRequest("GET", "/stats/exercise//trend", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	h.HandleExerciseTrend(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleProgressPoints(t *testing.T) {
	h, repoMock := newTestHandler(t)

	repoMock.EXPECT().SnapshotVersion(gomock.Any()).Return("1-1", nil)
	repoMock.EXPECT().
		ListAll(gomock.Any(), workouts.WorkoutParams{ExerciseID: "squat"}).
		Return([]workouts.WorkoutLog{
			{
				Date: time.Now().AddDate(0, 0, -3),
				Exercises: []workouts.ExerciseEntry{
					{ExerciseID: "squat", Sets: []workouts.SetEntry{{Weight: 140, Reps: 5}}},
				},
			},
		}, nil)

	req, err := http.NewRequest("GET", "/stats/exercise/squat/progress", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"exid": "squat"})
	rec := httptest.NewRecorder()

	h.HandleProgressPoints(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Points []analytics.ProgressPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 1)
	assert.InDelta(t, 163.3333, resp.Points[0].Value, 0.001)
}
