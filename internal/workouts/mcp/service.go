package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gympro/internal/workouts"
)

var ErrUnknownExercise = errors.New("unknown exercise")

// RoutineView is a routine with its exercise ids resolved.
type RoutineView struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Exercises []workouts.Exercise `json:"exercises"`
}

type BodyWeightView struct {
	Logs         []workouts.BodyWeightLog `json:"logs"`
	Latest       *workouts.BodyWeightLog  `json:"latest,omitempty"`
	ShowReminder bool                     `json:"show_reminder"`
}

type ExerciseHistoryView struct {
	Exercise workouts.Exercise       `json:"exercise"`
	History  []workouts.HistoryEntry `json:"history"`
}

type VolumeSeriesView struct {
	Exercise workouts.Exercise     `json:"exercise"`
	Points   []workouts.ChartPoint `json:"points"`
}

// contextService provides the read only views exposed as MCP tools.
// Used by Handler for testability.
type contextService interface {
	Routines(ctx context.Context) ([]RoutineView, error)
	Exercises(ctx context.Context, muscleGroup string) ([]workouts.Exercise, error)
	ExerciseHistory(ctx context.Context, exercise string) (*ExerciseHistoryView, error)
	VolumeSeries(ctx context.Context, exercise string) (*VolumeSeriesView, error)
	BodyWeight(ctx context.Context) (*BodyWeightView, error)
	SessionsBetween(ctx context.Context, from, to time.Time) ([]workouts.WorkoutSession, error)
}

// ContextService answers the MCP tools from the workouts service state.
type ContextService struct {
	workouts *workouts.Service
}

func NewContextService(service *workouts.Service) *ContextService {
	return &ContextService{
		workouts: service,
	}
}

func (s *ContextService) Routines(_ context.Context) ([]RoutineView, error) {
	state := s.workouts.State()
	views := make([]RoutineView, 0, len(state.Routines))
	for _, r := range state.Routines {
		views = append(views, RoutineView{
			ID:        r.ID,
			Name:      r.Name,
			Exercises: state.RoutineExercises(r),
		})
	}
	return views, nil
}

// Exercises returns the library, filtered by muscle group when one is given.
func (s *ContextService) Exercises(_ context.Context, muscleGroup string) ([]workouts.Exercise, error) {
	state := s.workouts.State()
	if muscleGroup == "" {
		return state.CustomExercises, nil
	}
	group, err := workouts.ParseMuscleGroup(muscleGroup)
	if err != nil {
		return nil, err
	}
	exercises := state.ExercisesByGroup(group)
	if exercises == nil {
		exercises = []workouts.Exercise{}
	}
	return exercises, nil
}

func (s *ContextService) ExerciseHistory(_ context.Context, exercise string) (*ExerciseHistoryView, error) {
	ex, err := s.resolveExercise(exercise)
	if err != nil {
		return nil, err
	}
	return &ExerciseHistoryView{
		Exercise: ex,
		History:  s.workouts.ExerciseHistory(ex.ID),
	}, nil
}

func (s *ContextService) VolumeSeries(_ context.Context, exercise string) (*VolumeSeriesView, error) {
	ex, err := s.resolveExercise(exercise)
	if err != nil {
		return nil, err
	}
	return &VolumeSeriesView{
		Exercise: ex,
		Points:   s.workouts.VolumeSeries(ex.ID),
	}, nil
}

func (s *ContextService) BodyWeight(_ context.Context) (*BodyWeightView, error) {
	state := s.workouts.State()
	view := &BodyWeightView{
		Logs:         state.BodyWeightLogs,
		ShowReminder: s.workouts.ShowWeightReminder(),
	}
	if latest, ok := state.LatestWeightLog(); ok {
		view.Latest = &latest
	}
	return view, nil
}

func (s *ContextService) SessionsBetween(_ context.Context, from, to time.Time) ([]workouts.WorkoutSession, error) {
	return s.workouts.SessionsBetween(from, to), nil
}

// resolveExercise matches an exercise id first, then a case insensitive name.
func (s *ContextService) resolveExercise(exercise string) (workouts.Exercise, error) {
	exercise = strings.TrimSpace(exercise)
	state := s.workouts.State()
	if ex, ok := state.Exercise(exercise); ok {
		return ex, nil
	}
	for _, ex := range state.CustomExercises {
		if strings.EqualFold(ex.Name, exercise) {
			return ex, nil
		}
	}
	return workouts.Exercise{}, fmt.Errorf("%w: %q", ErrUnknownExercise, exercise)
}
