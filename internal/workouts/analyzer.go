package workouts

import (
	"iter"
	"slices"
	"sort"
	"time"
)

type HistoryEntry struct {
	Date string      `json:"date"`
	Log  ExerciseLog `json:"log"`
}

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Analyzer derives read-only views from a state. Date labels are parsed
// with the layout they were written with.
type Analyzer struct {
	dateLayout string
}

func NewAnalyzer(dateLayout string) *Analyzer {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return &Analyzer{
		dateLayout: dateLayout,
	}
}

// ExerciseHistory yields, in stored session order, every session log of the
// exercise that has at least one set.
func (a *Analyzer) ExerciseHistory(state AppState, exerciseID string) iter.Seq[HistoryEntry] {
	sessions := state.Sessions
	return func(yield func(HistoryEntry) bool) {
		for _, s := range sessions {
			l, ok := s.Log(exerciseID)
			if !ok || len(l.Sets) == 0 {
				continue
			}
			if !yield(HistoryEntry{Date: s.Date, Log: l}) {
				return
			}
		}
	}
}

// VolumeSeries sums weight*reps of the exercise per session and then per
// date label, sorted by date ascending. Labels that do not parse go last,
// keeping their first-seen order.
func (a *Analyzer) VolumeSeries(state AppState, exerciseID string) []ChartPoint {
	points := []ChartPoint{}
	index := make(map[string]int)
	for entry := range a.ExerciseHistory(state, exerciseID) {
		volume := entry.Log.Volume()
		if i, ok := index[entry.Date]; ok {
			points[i].Value += volume
			continue
		}
		index[entry.Date] = len(points)
		points = append(points, ChartPoint{Label: entry.Date, Value: volume})
	}

	a.sortByDateLabel(points)
	return points
}

// WeightSeries is the body weight chart, one point per weigh-in in stored
// order.
func (a *Analyzer) WeightSeries(state AppState) []ChartPoint {
	points := make([]ChartPoint, 0, len(state.BodyWeightLogs))
	for _, l := range state.BodyWeightLogs {
		points = append(points, ChartPoint{Label: l.Date, Value: l.Weight})
	}
	return points
}

// SessionsByRecency returns the sessions sorted by timestamp, newest first.
func (a *Analyzer) SessionsByRecency(state AppState) []WorkoutSession {
	sessions := slices.Clone(state.Sessions)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions
}

// SessionsBetween returns, newest first, the sessions whose timestamp falls
// in [from, to]. A zero bound is open.
func (a *Analyzer) SessionsBetween(state AppState, from, to time.Time) []WorkoutSession {
	sessions := []WorkoutSession{}
	for _, s := range a.SessionsByRecency(state) {
		ts := time.UnixMilli(s.Timestamp)
		if !from.IsZero() && ts.Before(from) {
			continue
		}
		if !to.IsZero() && ts.After(to) {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions
}

func (a *Analyzer) ParseDate(label string) (time.Time, error) {
	return time.ParseInLocation(a.dateLayout, label, time.Local)
}

func (a *Analyzer) sortByDateLabel(points []ChartPoint) {
	type keyed struct {
		point ChartPoint
		date  time.Time
		ok    bool
	}
	keys := make([]keyed, len(points))
	for i, p := range points {
		d, err := a.ParseDate(p.Label)
		keys[i] = keyed{point: p, date: d, ok: err == nil}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].ok != keys[j].ok {
			return keys[i].ok
		}
		if !keys[i].ok {
			return false
		}
		return keys[i].date.Before(keys[j].date)
	})

	for i, k := range keys {
		points[i] = k.point
	}
}
