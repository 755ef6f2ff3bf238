package workouts

import (
	"slices"
	"strings"
)

// RoutineKey is what sessions store in WorkoutSession.RoutineID.
// Sessions are keyed by routine name so existing data keeps resolving.
func RoutineKey(r Routine) string {
	return r.Name
}

// SaveRoutine inserts the routine, or replaces the one with the same id.
func (t *Tracker) SaveRoutine(state AppState, routine Routine) AppState {
	routine.ExerciseIDs = slices.Clone(routine.ExerciseIDs)
	if routine.ExerciseIDs == nil {
		routine.ExerciseIDs = []string{}
	}

	routines := make([]Routine, 0, len(state.Routines)+1)
	replaced := false
	for _, r := range state.Routines {
		if r.ID == routine.ID {
			routines = append(routines, routine)
			replaced = true
			continue
		}
		routines = append(routines, r)
	}
	if !replaced {
		routines = append(routines, routine)
	}

	state.Routines = routines
	return state
}

// NewRoutine builds a routine with a fresh id. Empty names are rejected.
func (t *Tracker) NewRoutine(name string, exerciseIDs []string) (Routine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Routine{}, ErrEmptyRoutineName
	}
	return Routine{
		ID:          t.newID(),
		Name:        name,
		ExerciseIDs: slices.Clone(exerciseIDs),
	}, nil
}

// DeleteRoutine removes the routine. Sessions recorded against it are kept.
func (t *Tracker) DeleteRoutine(state AppState, id string) AppState {
	state.Routines = slices.DeleteFunc(slices.Clone(state.Routines), func(r Routine) bool {
		return r.ID == id
	})
	return state
}
