package workouts

import (
	"math"
	"time"
)

// DefaultWeightReminderInterval is how old the last weigh-in can get before
// the user is asked for a new one.
const DefaultWeightReminderInterval = 14 * 24 * time.Hour

// AddWeightLog appends a weigh-in dated today. NaN, infinite and non
// positive weights are ignored and ok is false.
func (t *Tracker) AddWeightLog(state AppState, weight float64) (_ AppState, _ BodyWeightLog, ok bool) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return state, BodyWeightLog{}, false
	}

	now := t.now()
	weightLog := BodyWeightLog{
		ID:        t.newID(),
		Date:      now.Format(t.dateLayout),
		Timestamp: now.UnixMilli(),
		Weight:    weight,
	}
	logs := make([]BodyWeightLog, 0, len(state.BodyWeightLogs)+1)
	logs = append(logs, state.BodyWeightLogs...)
	state.BodyWeightLogs = append(logs, weightLog)
	return state, weightLog, true
}

// NeedsWeightReminder reports whether there is no weigh-in at all, or the
// latest one is older than interval.
func (t *Tracker) NeedsWeightReminder(state AppState, interval time.Duration) bool {
	latest, ok := state.LatestWeightLog()
	if !ok {
		return true
	}
	if interval <= 0 {
		interval = DefaultWeightReminderInterval
	}
	return t.now().Sub(time.UnixMilli(latest.Timestamp)) > interval
}
