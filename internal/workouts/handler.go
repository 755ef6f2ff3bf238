package workouts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gympro/internal/telemetry/tracing"
	"github.com/2beens/gympro/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SessionsQueryLayout is the layout of the from/to query params of GET /sessions.
const SessionsQueryLayout = time.DateOnly

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}

type ReminderResponse struct {
	Show bool `json:"show"`
}

type SettingsResponse struct {
	Settings     AppSettings   `json:"settings"`
	AccentColors []AccentColor `json:"accentColors"`
	BgPatterns   []BgPattern   `json:"bgPatterns"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes switches the router to encoded path matching: routine keys are
// free text and may hold a "/" (sent as %2F).
func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.UseEncodedPath()

	r.HandleFunc("/state", handler.HandleState).Methods("GET", "OPTIONS").Name("state")

	r.HandleFunc("/routines", handler.HandleListRoutines).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines", handler.HandleSaveRoutine).Methods("PUT", "OPTIONS").Name("save-routine")
	r.HandleFunc("/routines/{id}", handler.HandleDeleteRoutine).Methods("DELETE", "OPTIONS").Name("delete-routine")
	r.HandleFunc("/routines/{id}/exercises", handler.HandleRoutineExercises).Methods("GET", "OPTIONS").Name("routine-exercises")

	r.HandleFunc("/exercises", handler.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-exercise")
	r.HandleFunc("/exercises/{id}", handler.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	r.HandleFunc("/exercises/{id}/move/{direction}", handler.HandleMoveExercise).Methods("POST", "OPTIONS").Name("move-exercise")
	r.HandleFunc("/exercises/{id}/history", handler.HandleExerciseHistory).Methods("GET", "OPTIONS").Name("exercise-history")
	r.HandleFunc("/exercises/{id}/volume", handler.HandleVolumeSeries).Methods("GET", "OPTIONS").Name("exercise-volume")

	r.HandleFunc("/sessions", handler.HandleListSessions).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/sessions/today/{routine}", handler.HandleTodaySession).Methods("GET", "OPTIONS").Name("today-session")
	r.HandleFunc("/sessions/today/{routine}/exercises/{exid}/sets", handler.HandleAddSet).Methods("POST", "OPTIONS").Name("add-set")
	r.HandleFunc("/sessions/today/{routine}/exercises/{exid}/sets/{index}", handler.HandleUpdateSet).Methods("PUT", "OPTIONS").Name("update-set")
	r.HandleFunc("/sessions/today/{routine}/exercises/{exid}/sets/{index}", handler.HandleRemoveSet).Methods("DELETE", "OPTIONS").Name("remove-set")

	r.HandleFunc("/weight", handler.HandleWeightSeries).Methods("GET", "OPTIONS").Name("weight-series")
	r.HandleFunc("/weight", handler.HandleAddWeight).Methods("POST", "OPTIONS").Name("add-weight")
	r.HandleFunc("/weight/reminder", handler.HandleWeightReminder).Methods("GET", "OPTIONS").Name("weight-reminder")
	r.HandleFunc("/weight/reminder", handler.HandleDismissWeightReminder).Methods("DELETE", "OPTIONS").Name("dismiss-weight-reminder")

	r.HandleFunc("/settings", handler.HandleGetSettings).Methods("GET", "OPTIONS").Name("get-settings")
	r.HandleFunc("/settings", handler.HandleUpdateSettings).Methods("PUT", "OPTIONS").Name("update-settings")

	r.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export")
}

func (handler *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.state")
	defer span.End()

	pkg.WriteJSON(w, handler.service.State(), http.StatusOK)
}

func (handler *Handler) HandleListRoutines(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list-routines")
	defer span.End()

	pkg.WriteJSON(w, handler.service.State().Routines, http.StatusOK)
}

func (handler *Handler) HandleSaveRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.save-routine")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Errorf("save routine, unmarshal json params: %s", err)
		http.Error(w, "save routine failed", http.StatusBadRequest)
		return
	}

	saved, err := handler.service.SaveRoutine(ctx, routine)
	if err != nil {
		writeServiceError(w, "save routine", err)
		return
	}

	log.Debugf("routine saved: [%s] %s", saved.ID, saved.Name)
	pkg.WriteJSON(w, saved, http.StatusOK)
}

func (handler *Handler) HandleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete-routine")
	defer span.End()

	id := pathVar(r, "id")
	found, err := handler.service.DeleteRoutine(ctx, id)
	if err != nil {
		writeServiceError(w, "delete routine", err)
		return
	}
	if !found {
		http.Error(w, ErrRoutineNotFound.Error(), http.StatusNotFound)
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleRoutineExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.routine-exercises")
	defer span.End()

	state := handler.service.State()
	routine, ok := state.Routine(pathVar(r, "id"))
	if !ok {
		http.Error(w, ErrRoutineNotFound.Error(), http.StatusNotFound)
		return
	}

	pkg.WriteJSON(w, state.RoutineExercises(routine), http.StatusOK)
}

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list-exercises")
	defer span.End()

	state := handler.service.State()
	groupParam := r.URL.Query().Get("group")
	if groupParam == "" {
		pkg.WriteJSON(w, state.CustomExercises, http.StatusOK)
		return
	}

	group, err := ParseMuscleGroup(groupParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	exercises := state.ExercisesByGroup(group)
	if exercises == nil {
		exercises = []Exercise{}
	}
	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add-exercise")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("add exercise failed, parse form: %s", err)
		http.Error(w, "error, bad form", http.StatusBadRequest)
		return
	}

	group, err := ParseMuscleGroup(r.Form.Get("muscle_group"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercise, err := handler.service.AddExercise(ctx, r.Form.Get("name"), group)
	if err != nil {
		writeServiceError(w, "add exercise", err)
		return
	}

	log.Debugf("new exercise added: [%s] [%s]: %s", exercise.MuscleGroup, exercise.Name, exercise.ID)
	pkg.WriteJSON(w, exercise, http.StatusCreated)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete-exercise")
	defer span.End()

	id := pathVar(r, "id")
	found, err := handler.service.DeleteExercise(ctx, id)
	if err != nil {
		writeServiceError(w, "delete exercise", err)
		return
	}
	if !found {
		http.Error(w, ErrExerciseNotFound.Error(), http.StatusNotFound)
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleMoveExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.move-exercise")
	defer span.End()

	dir, err := ParseDirection(pathVar(r, "direction"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercises, err := handler.service.ReorderExercise(ctx, pathVar(r, "id"), dir)
	if err != nil {
		writeServiceError(w, "move exercise", err)
		return
	}

	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.exercise-history")
	defer span.End()

	pkg.WriteJSON(w, handler.service.ExerciseHistory(pathVar(r, "id")), http.StatusOK)
}

func (handler *Handler) HandleVolumeSeries(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.exercise-volume")
	defer span.End()

	pkg.WriteJSON(w, handler.service.VolumeSeries(pathVar(r, "id")), http.StatusOK)
}

// HandleListSessions accepts optional from/to (YYYY-MM-DD, local time) query
// params. Both bounds are inclusive days.
func (handler *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list-sessions")
	defer span.End()

	query := r.URL.Query()
	fromParam, toParam := query.Get("from"), query.Get("to")
	if fromParam == "" && toParam == "" {
		pkg.WriteJSON(w, handler.service.Sessions(), http.StatusOK)
		return
	}

	var from, to time.Time
	if fromParam != "" {
		d, err := time.ParseInLocation(SessionsQueryLayout, fromParam, time.Local)
		if err != nil {
			http.Error(w, "error, invalid from date", http.StatusBadRequest)
			return
		}
		from = d
	}
	if toParam != "" {
		d, err := time.ParseInLocation(SessionsQueryLayout, toParam, time.Local)
		if err != nil {
			http.Error(w, "error, invalid to date", http.StatusBadRequest)
			return
		}
		to = d.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	pkg.WriteJSON(w, handler.service.SessionsBetween(from, to), http.StatusOK)
}

func (handler *Handler) HandleTodaySession(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.today-session")
	defer span.End()

	pkg.WriteJSON(w, handler.service.TodaySession(pathVar(r, "routine")), http.StatusOK)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add-set")
	defer span.End()

	session, err := handler.service.AddSet(ctx, pathVar(r, "routine"), pathVar(r, "exid"))
	if err != nil {
		writeServiceError(w, "add set", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusCreated)
}

func (handler *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update-set")
	defer span.End()

	index, err := strconv.Atoi(pathVar(r, "index"))
	if err != nil {
		http.Error(w, "error, index NaN", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Errorf("update set failed, parse form: %s", err)
		http.Error(w, "error, bad form", http.StatusBadRequest)
		return
	}
	update, err := ParseSetUpdate(r.Form.Get("field"), r.Form.Get("value"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, ok, err := handler.service.UpdateSet(ctx, pathVar(r, "routine"), pathVar(r, "exid"), index, update)
	if err != nil {
		writeServiceError(w, "update set", err)
		return
	}
	if !ok {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleRemoveSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.remove-set")
	defer span.End()

	index, err := strconv.Atoi(pathVar(r, "index"))
	if err != nil {
		http.Error(w, "error, index NaN", http.StatusBadRequest)
		return
	}

	session, ok, err := handler.service.RemoveSet(ctx, pathVar(r, "routine"), pathVar(r, "exid"), index)
	if err != nil {
		writeServiceError(w, "remove set", err)
		return
	}
	if !ok {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleWeightSeries(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.weight-series")
	defer span.End()

	pkg.WriteJSON(w, handler.service.WeightSeries(), http.StatusOK)
}

func (handler *Handler) HandleAddWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add-weight")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("add weight failed, parse form: %s", err)
		http.Error(w, "error, bad form", http.StatusBadRequest)
		return
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(r.Form.Get("weight")), 64)
	if err != nil {
		http.Error(w, "error, weight NaN", http.StatusBadRequest)
		return
	}

	weightLog, err := handler.service.AddWeightLog(ctx, weight)
	if err != nil {
		writeServiceError(w, "add weight", err)
		return
	}

	pkg.WriteJSON(w, weightLog, http.StatusCreated)
}

func (handler *Handler) HandleWeightReminder(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, ReminderResponse{Show: handler.service.ShowWeightReminder()}, http.StatusOK)
}

func (handler *Handler) HandleDismissWeightReminder(w http.ResponseWriter, r *http.Request) {
	handler.service.DismissWeightReminder()
	pkg.WriteJSON(w, ReminderResponse{Show: false}, http.StatusOK)
}

func (handler *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, SettingsResponse{
		Settings:     handler.service.State().Settings,
		AccentColors: AccentColors,
		BgPatterns:   BgPatterns,
	}, http.StatusOK)
}

func (handler *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update-settings")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("update settings failed, parse form: %s", err)
		http.Error(w, "error, bad form", http.StatusBadRequest)
		return
	}

	var updates []SettingsUpdate
	if r.Form.Has("theme") {
		updates = append(updates, SetTheme(r.Form.Get("theme")))
	}
	if r.Form.Has("accent_color") {
		updates = append(updates, SetAccentColor(r.Form.Get("accent_color")))
	}
	if r.Form.Has("bg_pattern") {
		updates = append(updates, SetBackgroundPattern(r.Form.Get("bg_pattern")))
	}

	settings, err := handler.service.UpdateSettings(ctx, updates...)
	if err != nil {
		writeServiceError(w, "update settings", err)
		return
	}

	pkg.WriteJSON(w, settings, http.StatusOK)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.export")
	defer span.End()

	var buf bytes.Buffer
	if err := handler.service.ExportCSV(ctx, &buf); err != nil {
		log.Errorf("export csv: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", handler.service.ExportFileName()))
	pkg.WriteResponseBytes(w, pkg.ContentType.CSV, buf.Bytes(), http.StatusOK)
}

// writeServiceError maps validation errors to 400 and anything else to 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	if IsValidationError(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Errorf("%s: %s", op, err)
	http.Error(w, fmt.Sprintf("error, %s failed", op), http.StatusInternalServerError)
}

// IsValidationError reports whether err comes from rejected input rather
// than from the store.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyRoutineName,
		ErrEmptyExerciseName,
		ErrUnknownSetField,
		ErrInvalidWeight,
		ErrInvalidMuscleGroup,
		ErrInvalidDirection,
		ErrInvalidSetting,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// pathVar returns the unescaped route variable. A value that is not a valid
// escape sequence is returned as is.
func pathVar(r *http.Request, name string) string {
	v := mux.Vars(r)[name]
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
