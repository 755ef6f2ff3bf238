package workouts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/2beens/gympro/internal/workouts"
	"github.com/2beens/gympro/internal/workouts/store"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerTestEnv struct {
	router  *mux.Router
	service *workouts.Service
	store   *store.StateStore
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()

	stateStore := store.New(store.NewMemoryBackend(64*1024*1024, store.DefaultKey), nil)
	clock := newTestClock()
	service, err := workouts.NewService(context.Background(), workouts.NewServiceParams{
		Store:   stateStore,
		Tracker: workouts.NewTracker(workouts.WithClock(clock.Now)),
	})
	require.NoError(t, err)

	r := mux.NewRouter()
	workouts.NewHandler(service).SetupRoutes(r)
	return &handlerTestEnv{router: r, service: service, store: stateStore}
}

func (env *handlerTestEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHandler_State(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/state", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	state := decode[workouts.AppState](t, rr)
	assert.Equal(t, workouts.DefaultState(), state)
}

func TestHandler_Routines(t *testing.T) {
	env := newHandlerTestEnv(t)

	req := httptest.NewRequest("PUT", "/routines", strings.NewReader(`{"name":"Push Day","exerciseIds":["1","2"]}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	saved := decode[workouts.Routine](t, rr)
	assert.NotEmpty(t, saved.ID)

	rr = env.do(t, "GET", "/routines", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []workouts.Routine{saved}, decode[[]workouts.Routine](t, rr))

	rr = env.do(t, "GET", "/routines/"+saved.ID+"/exercises", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]workouts.Exercise](t, rr), 2)

	req = httptest.NewRequest("PUT", "/routines", strings.NewReader(`{"name":" "}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "PUT", "/routines", url.Values{"name": {"Push Day"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "DELETE", "/routines/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, workouts.DeleteResponse{DeletedID: saved.ID}, decode[workouts.DeleteResponse](t, rr))

	rr = env.do(t, "DELETE", "/routines/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Exercises(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/exercises?group=core", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	core := decode[[]workouts.Exercise](t, rr)
	assert.Equal(t, []string{"14", "15"}, exerciseIDs(core))

	rr = env.do(t, "GET", "/exercises?group=neck", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "POST", "/exercises", url.Values{"name": {"Hip Thrust"}, "muscle_group": {"legs"}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	added := decode[workouts.Exercise](t, rr)
	assert.Equal(t, workouts.MuscleGroupLegs, added.MuscleGroup)

	rr = env.do(t, "POST", "/exercises", url.Values{"name": {""}, "muscle_group": {"legs"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "POST", "/exercises/"+added.ID+"/move/up", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	ids := exerciseIDs(decode[[]workouts.Exercise](t, rr))
	assert.Equal(t, added.ID, ids[len(ids)-2])

	rr = env.do(t, "POST", "/exercises/"+added.ID+"/move/sideways", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "DELETE", "/exercises/"+added.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, "DELETE", "/exercises/"+added.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, "GET", "/exercises", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, workouts.DefaultExercises(), decode[[]workouts.Exercise](t, rr))
}

func TestHandler_SetsFlow(t *testing.T) {
	env := newHandlerTestEnv(t)
	base := "/sessions/today/" + url.PathEscape("Push Day") + "/exercises/1/sets"

	rr := env.do(t, "GET", "/sessions/today/"+url.PathEscape("Push Day"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[workouts.WorkoutSession](t, rr).Logs)
	assert.Empty(t, env.service.State().Sessions)

	rr = env.do(t, "POST", base, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	session := decode[workouts.WorkoutSession](t, rr)
	assert.Equal(t, "Push Day", session.RoutineID)

	rr = env.do(t, "PUT", base+"/0", url.Values{"field": {"weight"}, "value": {"80"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = env.do(t, "PUT", base+"/0", url.Values{"field": {"reps"}, "value": {"5"}})
	require.Equal(t, http.StatusOK, rr.Code)
	session = decode[workouts.WorkoutSession](t, rr)
	assert.Equal(t, workouts.SetLog{Reps: 5, Weight: 80}, session.Logs[0].Sets[0])

	rr = env.do(t, "PUT", base+"/0", url.Values{"field": {"tempo"}, "value": {"slow"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.do(t, "PUT", base+"/3", url.Values{"field": {"reps"}, "value": {"5"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, "PUT", base+"/x", url.Values{"field": {"reps"}, "value": {"5"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "GET", "/exercises/1/volume", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []workouts.ChartPoint{{Label: "9/3/2025", Value: 400}}, decode[[]workouts.ChartPoint](t, rr))

	rr = env.do(t, "GET", "/exercises/1/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]workouts.HistoryEntry](t, rr), 1)

	rr = env.do(t, "GET", "/sessions?from=2025-03-09&to=2025-03-09", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]workouts.WorkoutSession](t, rr), 1)
	rr = env.do(t, "GET", "/sessions?from=2025-03-10", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]workouts.WorkoutSession](t, rr))
	rr = env.do(t, "GET", "/sessions?to=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "DELETE", base+"/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[workouts.WorkoutSession](t, rr).Logs[0].Sets)

	stored, err := env.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, env.service.State(), stored)
}

func TestHandler_RoutineKeyWithSlash(t *testing.T) {
	env := newHandlerTestEnv(t)

	_, err := env.service.SaveRoutine(context.Background(), workouts.Routine{Name: "Push/Pull", ExerciseIDs: []string{"1"}})
	require.NoError(t, err)

	today := "/sessions/today/" + url.PathEscape("Push/Pull")
	require.Equal(t, "/sessions/today/Push%2FPull", today)

	rr := env.do(t, "POST", today+"/exercises/1/sets", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "Push/Pull", decode[workouts.WorkoutSession](t, rr).RoutineID)

	rr = env.do(t, "PUT", today+"/exercises/1/sets/0", url.Values{"field": {"reps"}, "value": {"10"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, "GET", today, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	session := decode[workouts.WorkoutSession](t, rr)
	require.Len(t, session.Logs, 1)
	assert.Equal(t, []workouts.SetLog{{Reps: 10}}, session.Logs[0].Sets)

	sessions := env.service.State().Sessions
	require.Len(t, sessions, 1)
	assert.Equal(t, "Push/Pull", sessions[0].RoutineID)

	rr = env.do(t, "DELETE", today+"/exercises/1/sets/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[workouts.WorkoutSession](t, rr).Logs[0].Sets)
}

func TestHandler_Weight(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/weight/reminder", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[workouts.ReminderResponse](t, rr).Show)

	rr = env.do(t, "POST", "/weight", url.Values{"weight": {"0"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.do(t, "POST", "/weight", url.Values{"weight": {"heavy"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "POST", "/weight", url.Values{"weight": {"82.5"}})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 82.5, decode[workouts.BodyWeightLog](t, rr).Weight)

	rr = env.do(t, "GET", "/weight/reminder", nil)
	assert.False(t, decode[workouts.ReminderResponse](t, rr).Show)

	rr = env.do(t, "GET", "/weight", nil)
	assert.Equal(t, []workouts.ChartPoint{{Label: "9/3/2025", Value: 82.5}}, decode[[]workouts.ChartPoint](t, rr))
}

func TestHandler_Settings(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[workouts.SettingsResponse](t, rr)
	assert.Equal(t, workouts.DefaultSettings(), resp.Settings)
	assert.Equal(t, workouts.AccentColors, resp.AccentColors)
	assert.Equal(t, workouts.BgPatterns, resp.BgPatterns)

	rr = env.do(t, "PUT", "/settings", url.Values{"theme": {"dark"}, "bg_pattern": {"kettlebell"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t,
		workouts.AppSettings{Theme: workouts.ThemeDark, AccentColor: workouts.DefaultAccentColor, BgPattern: "kettlebell"},
		decode[workouts.AppSettings](t, rr),
	)

	rr = env.do(t, "PUT", "/settings", url.Values{"theme": {"sepia"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Export(t *testing.T) {
	env := newHandlerTestEnv(t)
	env.do(t, "POST", "/weight", url.Values{"weight": {"82.5"}})

	rr := env.do(t, "GET", "/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=gym_data_2025-03-09.csv", rr.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"Tipo,Fecha,Rutina/Info,Ejercicio,Set,Peso_Reps\nPeso Corporal,9/3/2025,82.5,,,\n",
		rr.Body.String(),
	)
}
