package workouts

import (
	"fmt"
	"slices"
	"strings"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// AddExercise appends a new exercise to the library. An empty name or an
// unknown muscle group leaves the state untouched and ok is false.
func (t *Tracker) AddExercise(state AppState, name string, group MuscleGroup) (_ AppState, _ Exercise, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" || !group.IsValid() {
		return state, Exercise{}, false
	}

	exercise := Exercise{
		ID:          t.newID(),
		Name:        name,
		MuscleGroup: group,
	}
	exercises := make([]Exercise, 0, len(state.CustomExercises)+1)
	exercises = append(exercises, state.CustomExercises...)
	state.CustomExercises = append(exercises, exercise)
	return state, exercise, true
}

// DeleteExercise removes the exercise from the library and from every
// routine referencing it.
func (t *Tracker) DeleteExercise(state AppState, id string) AppState {
	state.CustomExercises = slices.DeleteFunc(slices.Clone(state.CustomExercises), func(ex Exercise) bool {
		return ex.ID == id
	})

	routines := make([]Routine, len(state.Routines))
	for i, r := range state.Routines {
		r.ExerciseIDs = slices.DeleteFunc(slices.Clone(r.ExerciseIDs), func(exID string) bool {
			return exID == id
		})
		routines[i] = r
	}
	state.Routines = routines
	return state
}

// ReorderExercise swaps the exercise with its neighbour in the global
// library order. Unknown ids and moves past either end are no-ops.
func (t *Tracker) ReorderExercise(state AppState, id string, dir Direction) AppState {
	idx := slices.IndexFunc(state.CustomExercises, func(ex Exercise) bool {
		return ex.ID == id
	})
	if idx < 0 {
		return state
	}

	var target int
	switch dir {
	case DirectionUp:
		target = idx - 1
	case DirectionDown:
		target = idx + 1
	default:
		return state
	}
	if target < 0 || target >= len(state.CustomExercises) {
		return state
	}

	exercises := slices.Clone(state.CustomExercises)
	exercises[idx], exercises[target] = exercises[target], exercises[idx]
	state.CustomExercises = exercises
	return state
}
