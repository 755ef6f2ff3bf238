package workouts

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gympro/internal/telemetry/metrics"
	"github.com/2beens/gympro/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=workouts_test

type stateStore interface {
	Load(ctx context.Context) (AppState, error)
	Save(ctx context.Context, state AppState) error
}

// Service owns the current AppState. Intents run one at a time: each one
// reduces the current state with the Tracker, replaces it and saves it.
type Service struct {
	store          stateStore
	tracker        *Tracker
	analyzer       *Analyzer
	metricsManager *metrics.Manager

	reminderInterval time.Duration

	mu                 sync.Mutex
	state              AppState
	showWeightReminder bool
}

type NewServiceParams struct {
	Store   stateStore
	Tracker *Tracker
	// MetricsManager may be nil.
	MetricsManager *metrics.Manager
	// WeightReminderInterval defaults to DefaultWeightReminderInterval.
	WeightReminderInterval time.Duration
}

// NewService loads the stored state. A store that cannot be read is an
// error, so a broken backend never gets overwritten with the defaults.
func NewService(ctx context.Context, params NewServiceParams) (*Service, error) {
	tracker := params.Tracker
	if tracker == nil {
		tracker = NewTracker()
	}
	interval := params.WeightReminderInterval
	if interval <= 0 {
		interval = DefaultWeightReminderInterval
	}

	s := &Service{
		store:            params.Store,
		tracker:          tracker,
		analyzer:         NewAnalyzer(tracker.DateLayout()),
		metricsManager:   params.MetricsManager,
		reminderInterval: interval,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with the stored one and evaluates the
// weight reminder again.
func (s *Service) Reload(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.reload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.showWeightReminder = s.tracker.NeedsWeightReminder(state, s.reminderInterval)
	log.Debugf(
		"state loaded: %d routines, %d sessions, %d exercises, %d weight logs",
		len(state.Routines), len(state.Sessions), len(state.CustomExercises), len(state.BodyWeightLogs),
	)
	return nil
}

func (s *Service) Tracker() *Tracker {
	return s.tracker
}

func (s *Service) Analyzer() *Analyzer {
	return s.analyzer
}

// State returns the current state. Callers must treat it as read only.
func (s *Service) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ShowWeightReminder is evaluated on load and cleared by AddWeightLog.
func (s *Service) ShowWeightReminder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showWeightReminder
}

func (s *Service) DismissWeightReminder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showWeightReminder = false
}

// apply runs reduce against the current state. When reduce reports a change
// the new state replaces the current one and is saved. A failed save keeps
// the new state in memory and is returned to the caller.
func (s *Service) apply(ctx context.Context, intent string, reduce func(AppState) (AppState, bool)) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts."+intent)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := reduce(s.state)
	span.SetAttributes(attribute.Bool("changed", changed))
	if !changed {
		return nil
	}
	s.state = next

	if err := s.store.Save(ctx, next); err != nil {
		log.Errorf("%s: save state: %s", intent, err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *Service) SaveRoutine(ctx context.Context, routine Routine) (Routine, error) {
	routine.Name = strings.TrimSpace(routine.Name)
	if routine.Name == "" {
		return Routine{}, ErrEmptyRoutineName
	}
	if routine.ID == "" {
		var err error
		routine, err = s.tracker.NewRoutine(routine.Name, routine.ExerciseIDs)
		if err != nil {
			return Routine{}, err
		}
	}

	err := s.apply(ctx, "save-routine", func(state AppState) (AppState, bool) {
		return s.tracker.SaveRoutine(state, routine), true
	})
	if routine.ExerciseIDs == nil {
		routine.ExerciseIDs = []string{}
	}
	return routine, err
}

func (s *Service) DeleteRoutine(ctx context.Context, id string) (bool, error) {
	var found bool
	err := s.apply(ctx, "delete-routine", func(state AppState) (AppState, bool) {
		_, found = state.Routine(id)
		return s.tracker.DeleteRoutine(state, id), found
	})
	return found, err
}

func (s *Service) AddExercise(ctx context.Context, name string, group MuscleGroup) (Exercise, error) {
	if strings.TrimSpace(name) == "" {
		return Exercise{}, ErrEmptyExerciseName
	}
	if !group.IsValid() {
		return Exercise{}, fmt.Errorf("%w: %q", ErrInvalidMuscleGroup, group)
	}

	var exercise Exercise
	err := s.apply(ctx, "add-exercise", func(state AppState) (AppState, bool) {
		var ok bool
		state, exercise, ok = s.tracker.AddExercise(state, name, group)
		return state, ok
	})
	if exercise.ID == "" && err == nil {
		return Exercise{}, ErrEmptyExerciseName
	}
	return exercise, err
}

func (s *Service) DeleteExercise(ctx context.Context, id string) (bool, error) {
	var found bool
	err := s.apply(ctx, "delete-exercise", func(state AppState) (AppState, bool) {
		_, found = state.Exercise(id)
		return s.tracker.DeleteExercise(state, id), found
	})
	return found, err
}

// ReorderExercise returns the library after the move.
func (s *Service) ReorderExercise(ctx context.Context, id string, dir Direction) ([]Exercise, error) {
	if dir != DirectionUp && dir != DirectionDown {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	var exercises []Exercise
	err := s.apply(ctx, "reorder-exercise", func(state AppState) (AppState, bool) {
		next := s.tracker.ReorderExercise(state, id, dir)
		exercises = next.CustomExercises
		return next, !slices.Equal(state.CustomExercises, next.CustomExercises)
	})
	return exercises, err
}

// TodaySession does not change the state.
func (s *Service) TodaySession(routineKey string) WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.TodaySession(s.state, routineKey)
}

func (s *Service) AddSet(ctx context.Context, routineKey, exerciseID string) (WorkoutSession, error) {
	var session WorkoutSession
	err := s.apply(ctx, "add-set", func(state AppState) (AppState, bool) {
		state, session = s.tracker.AddSet(state, routineKey, exerciseID)
		return state, true
	})
	if err == nil && s.metricsManager != nil {
		s.metricsManager.CounterSetsLogged.Inc()
	}
	return session, err
}

// UpdateSet reports ok=false when the session, the log or the set at index
// does not exist.
func (s *Service) UpdateSet(
	ctx context.Context,
	routineKey, exerciseID string,
	index int,
	update SetUpdate,
) (_ WorkoutSession, ok bool, _ error) {
	var session WorkoutSession
	err := s.apply(ctx, "update-set", func(state AppState) (AppState, bool) {
		state, session, ok = s.tracker.UpdateSet(state, routineKey, exerciseID, index, update)
		return state, ok
	})
	return session, ok, err
}

func (s *Service) RemoveSet(
	ctx context.Context,
	routineKey, exerciseID string,
	index int,
) (_ WorkoutSession, ok bool, _ error) {
	var session WorkoutSession
	err := s.apply(ctx, "remove-set", func(state AppState) (AppState, bool) {
		state, session, ok = s.tracker.RemoveSet(state, routineKey, exerciseID, index)
		return state, ok
	})
	return session, ok, err
}

// AddWeightLog rejects NaN and non positive weights with ErrInvalidWeight.
// A recorded weigh-in clears the weight reminder, even if the save failed.
func (s *Service) AddWeightLog(ctx context.Context, weight float64) (BodyWeightLog, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return BodyWeightLog{}, fmt.Errorf("%w: %v", ErrInvalidWeight, weight)
	}

	var (
		weightLog BodyWeightLog
		appended  bool
	)
	err := s.apply(ctx, "add-weight-log", func(state AppState) (AppState, bool) {
		state, weightLog, appended = s.tracker.AddWeightLog(state, weight)
		if appended {
			s.showWeightReminder = false
		}
		return state, appended
	})
	if err == nil && appended && s.metricsManager != nil {
		s.metricsManager.CounterWeightLogs.Inc()
	}
	return weightLog, err
}

// UpdateSettings returns ErrInvalidSetting when none of the updates applies.
func (s *Service) UpdateSettings(ctx context.Context, updates ...SettingsUpdate) (AppSettings, error) {
	var (
		settings AppSettings
		applied  bool
	)
	err := s.apply(ctx, "update-settings", func(state AppState) (AppState, bool) {
		state, applied = s.tracker.UpdateSettings(state, updates...)
		settings = state.Settings
		return state, applied
	})
	if err != nil {
		return settings, err
	}
	if !applied {
		return settings, ErrInvalidSetting
	}
	return settings, nil
}

func (s *Service) ExerciseHistory(exerciseID string) []HistoryEntry {
	history := []HistoryEntry{}
	for entry := range s.analyzer.ExerciseHistory(s.State(), exerciseID) {
		history = append(history, entry)
	}
	return history
}

func (s *Service) VolumeSeries(exerciseID string) []ChartPoint {
	return s.analyzer.VolumeSeries(s.State(), exerciseID)
}

func (s *Service) WeightSeries() []ChartPoint {
	return s.analyzer.WeightSeries(s.State())
}

// Sessions are sorted newest first.
func (s *Service) Sessions() []WorkoutSession {
	return s.analyzer.SessionsByRecency(s.State())
}

func (s *Service) SessionsBetween(from, to time.Time) []WorkoutSession {
	return s.analyzer.SessionsBetween(s.State(), from, to)
}

func (s *Service) ExportCSV(ctx context.Context, w io.Writer) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.workouts.export-csv")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state := s.State()
	rows := ExportRows(state.Sessions, state.BodyWeightLogs, state.CustomExercises)
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return WriteCSV(w, rows)
}

func (s *Service) ExportFileName() string {
	return ExportFileName(s.tracker.Now())
}
