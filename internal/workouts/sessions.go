package workouts

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// SetUpdate changes a single field of a SetLog.
// Implemented by UpdateReps, UpdateWeight and UpdateNote.
type SetUpdate interface {
	apply(SetLog) SetLog
}

// MaxReps caps the reps of a set.
const MaxReps = math.MaxInt32

type (
	UpdateReps   int
	UpdateWeight float64
	UpdateNote   string
)

func (u UpdateReps) apply(s SetLog) SetLog {
	s.Reps = min(max(int(u), 0), MaxReps)
	return s
}

func (u UpdateWeight) apply(s SetLog) SetLog {
	s.Weight = sanitizeWeight(float64(u))
	return s
}

func (u UpdateNote) apply(s SetLog) SetLog {
	s.Note = string(u)
	return s
}

func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// ParseSetUpdate turns a (field, value) pair coming from a form or a command
// line into a SetUpdate. Numbers that do not parse become zero.
func ParseSetUpdate(field, value string) (SetUpdate, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "reps":
		return UpdateReps(parseReps(value)), nil
	case "weight":
		w, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return UpdateWeight(0), nil
		}
		return UpdateWeight(w), nil
	case "note":
		return UpdateNote(value), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetField, field)
	}
}

// parseReps truncates decimals ("8.5" -> 8). Negative or malformed values are
// 0, values beyond MaxReps saturate.
func parseReps(value string) int {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	if math.IsNaN(f) || (err == nil && math.IsInf(f, 0)) || f <= 0 {
		return 0
	}
	return int(min(f, MaxReps))
}

// TodaySession returns the session recorded today for the routine key, or a
// new one that is not part of the state until a set is added to it.
func (t *Tracker) TodaySession(state AppState, routineKey string) WorkoutSession {
	if session, ok := t.findTodaySession(state, routineKey); ok {
		return session
	}
	now := t.now()
	return WorkoutSession{
		ID:        t.newID(),
		Date:      now.Format(t.dateLayout),
		Timestamp: now.UnixMilli(),
		RoutineID: routineKey,
		Logs:      []ExerciseLog{},
	}
}

func (t *Tracker) findTodaySession(state AppState, routineKey string) (WorkoutSession, bool) {
	today := t.Today()
	for _, s := range state.Sessions {
		if s.Date == today && s.RoutineID == routineKey {
			return s, true
		}
	}
	return WorkoutSession{}, false
}

// commitSession drops any session with the same id and appends the given
// one, so edited sessions move to the end of the list.
func commitSession(state AppState, session WorkoutSession) AppState {
	sessions := make([]WorkoutSession, 0, len(state.Sessions)+1)
	for _, s := range state.Sessions {
		if s.ID != session.ID {
			sessions = append(sessions, s)
		}
	}
	state.Sessions = append(sessions, session)
	return state
}

// AddSet appends an empty set to the exercise log of today's session,
// creating the session and the log when needed.
func (t *Tracker) AddSet(state AppState, routineKey, exerciseID string) (AppState, WorkoutSession) {
	session := t.TodaySession(state, routineKey)

	logs := make([]ExerciseLog, 0, len(session.Logs)+1)
	found := false
	for _, l := range session.Logs {
		if l.ExerciseID == exerciseID {
			sets := make([]SetLog, 0, len(l.Sets)+1)
			sets = append(sets, l.Sets...)
			l.Sets = append(sets, SetLog{})
			found = true
		}
		logs = append(logs, l)
	}
	if !found {
		logs = append(logs, ExerciseLog{
			ExerciseID: exerciseID,
			Sets:       []SetLog{{}},
		})
	}
	session.Logs = logs

	return commitSession(state, session), session
}

// UpdateSet applies the update to the set at index. A missing session, log
// or index leaves the state untouched and ok is false.
func (t *Tracker) UpdateSet(
	state AppState,
	routineKey, exerciseID string,
	index int,
	update SetUpdate,
) (_ AppState, _ WorkoutSession, ok bool) {
	if update == nil {
		return state, t.TodaySession(state, routineKey), false
	}
	return t.editSets(state, routineKey, exerciseID, index, func(sets []SetLog) []SetLog {
		sets[index] = update.apply(sets[index])
		return sets
	})
}

// RemoveSet deletes the set at index, with the same guards as UpdateSet.
// A log left without sets stays in the session.
func (t *Tracker) RemoveSet(
	state AppState,
	routineKey, exerciseID string,
	index int,
) (_ AppState, _ WorkoutSession, ok bool) {
	return t.editSets(state, routineKey, exerciseID, index, func(sets []SetLog) []SetLog {
		return slices.Delete(sets, index, index+1)
	})
}

// editSets hands a copy of the addressed log sets to edit and commits the
// result.
func (t *Tracker) editSets(
	state AppState,
	routineKey, exerciseID string,
	index int,
	edit func([]SetLog) []SetLog,
) (AppState, WorkoutSession, bool) {
	session, ok := t.findTodaySession(state, routineKey)
	if !ok {
		return state, t.TodaySession(state, routineKey), false
	}

	logIdx := slices.IndexFunc(session.Logs, func(l ExerciseLog) bool {
		return l.ExerciseID == exerciseID
	})
	if logIdx < 0 {
		return state, session, false
	}
	log := session.Logs[logIdx]
	if index < 0 || index >= len(log.Sets) {
		return state, session, false
	}

	log.Sets = edit(slices.Clone(log.Sets))
	logs := slices.Clone(session.Logs)
	logs[logIdx] = log
	session.Logs = logs

	return commitSession(state, session), session, true
}
