package workouts

import "errors"

var (
	ErrEmptyRoutineName   = errors.New("routine name is empty")
	ErrEmptyExerciseName  = errors.New("exercise name is empty")
	ErrUnknownSetField    = errors.New("unknown set field")
	ErrInvalidWeight      = errors.New("invalid weight")
	ErrInvalidMuscleGroup = errors.New("invalid muscle group")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrInvalidSetting     = errors.New("invalid setting")
	ErrRoutineNotFound    = errors.New("routine not found")
	ErrExerciseNotFound   = errors.New("exercise not found")
)
