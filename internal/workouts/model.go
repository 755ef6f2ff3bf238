package workouts

import (
	"fmt"
	"strings"
)

type MuscleGroup string

// Stored values are the labels the first version of the app wrote into the
// state blob, so they stay in Spanish.
const (
	MuscleGroupChest     MuscleGroup = "Pecho"
	MuscleGroupBack      MuscleGroup = "Espalda"
	MuscleGroupLegs      MuscleGroup = "Piernas"
	MuscleGroupShoulders MuscleGroup = "Hombros"
	MuscleGroupArms      MuscleGroup = "Brazos"
	MuscleGroupCore      MuscleGroup = "Core"
)

// MuscleGroups lists every group in display order.
var MuscleGroups = []MuscleGroup{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupLegs,
	MuscleGroupShoulders,
	MuscleGroupArms,
	MuscleGroupCore,
}

var muscleGroupAliases = map[string]MuscleGroup{
	"chest":     MuscleGroupChest,
	"back":      MuscleGroupBack,
	"legs":      MuscleGroupLegs,
	"shoulders": MuscleGroupShoulders,
	"arms":      MuscleGroupArms,
	"core":      MuscleGroupCore,
}

func (mg MuscleGroup) String() string {
	return string(mg)
}

func (mg MuscleGroup) IsValid() bool {
	for _, g := range MuscleGroups {
		if g == mg {
			return true
		}
	}
	return false
}

// ParseMuscleGroup accepts either the stored label ("Pecho") or the english
// name ("chest"), case-insensitive.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	s = strings.TrimSpace(s)
	for _, g := range MuscleGroups {
		if strings.EqualFold(string(g), s) {
			return g, nil
		}
	}
	if g, ok := muscleGroupAliases[strings.ToLower(s)]; ok {
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMuscleGroup, s)
}

type Exercise struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscleGroup"`
}

type Routine struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exerciseIds"`
}

type SetLog struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Note   string  `json:"note"`
}

// Volume is weight times reps.
func (s SetLog) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

type ExerciseLog struct {
	ExerciseID string   `json:"exerciseId"`
	Sets       []SetLog `json:"sets"`
}

func (l ExerciseLog) Volume() float64 {
	var v float64
	for _, s := range l.Sets {
		v += s.Volume()
	}
	return v
}

type WorkoutSession struct {
	ID string `json:"id"`
	// Date is the calendar day label, see Tracker.Today.
	Date string `json:"date"`
	// Timestamp is unix millis of the session creation.
	Timestamp int64 `json:"timestamp"`
	// RoutineID holds the routine key (see RoutineKey), not the routine id.
	RoutineID string        `json:"routineId"`
	Logs      []ExerciseLog `json:"logs"`
}

// Log returns the log for the given exercise, if the session has one.
func (s WorkoutSession) Log(exerciseID string) (ExerciseLog, bool) {
	for _, l := range s.Logs {
		if l.ExerciseID == exerciseID {
			return l, true
		}
	}
	return ExerciseLog{}, false
}

type BodyWeightLog struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"`
	Weight    float64 `json:"weight"`
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

type AppSettings struct {
	Theme       Theme  `json:"theme"`
	AccentColor string `json:"accentColor"`
	BgPattern   string `json:"bgPattern"`
}

type AppState struct {
	Routines        []Routine        `json:"routines"`
	Sessions        []WorkoutSession `json:"sessions"`
	BodyWeightLogs  []BodyWeightLog  `json:"bodyWeightLogs"`
	CustomExercises []Exercise       `json:"customExercises"`
	Settings        AppSettings      `json:"settings"`
	// ActiveSession is carried for blob compatibility only.
	ActiveSession *WorkoutSession `json:"activeSession"`
}

func (s AppState) Exercise(id string) (Exercise, bool) {
	for _, ex := range s.CustomExercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}

func (s AppState) Routine(id string) (Routine, bool) {
	for _, r := range s.Routines {
		if r.ID == id {
			return r, true
		}
	}
	return Routine{}, false
}

// RoutineByKey finds a routine by its session key.
func (s AppState) RoutineByKey(key string) (Routine, bool) {
	for _, r := range s.Routines {
		if RoutineKey(r) == key {
			return r, true
		}
	}
	return Routine{}, false
}

// RoutineExercises resolves the routine exercise ids, in routine order.
// Unknown ids are skipped.
func (s AppState) RoutineExercises(r Routine) []Exercise {
	exercises := make([]Exercise, 0, len(r.ExerciseIDs))
	for _, id := range r.ExerciseIDs {
		if ex, ok := s.Exercise(id); ok {
			exercises = append(exercises, ex)
		}
	}
	return exercises
}

// ExercisesByGroup filters the library keeping the global order.
func (s AppState) ExercisesByGroup(group MuscleGroup) []Exercise {
	var exercises []Exercise
	for _, ex := range s.CustomExercises {
		if ex.MuscleGroup == group {
			exercises = append(exercises, ex)
		}
	}
	return exercises
}

func (s AppState) LatestWeightLog() (BodyWeightLog, bool) {
	if len(s.BodyWeightLogs) == 0 {
		return BodyWeightLog{}, false
	}
	return s.BodyWeightLogs[len(s.BodyWeightLogs)-1], true
}
