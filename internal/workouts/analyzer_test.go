package workouts_test

import (
	"testing"
	"time"

	"github.com/2beens/gympro/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(id, date string, ts int64, routine string, logs ...workouts.ExerciseLog) workouts.WorkoutSession {
	return workouts.WorkoutSession{ID: id, Date: date, Timestamp: ts, RoutineID: routine, Logs: logs}
}

func exLog(exerciseID string, sets ...workouts.SetLog) workouts.ExerciseLog {
	return workouts.ExerciseLog{ExerciseID: exerciseID, Sets: sets}
}

func TestAnalyzer_ExerciseHistory(t *testing.T) {
	analyzer := workouts.NewAnalyzer("")
	state := workouts.DefaultState()
	state.Sessions = []workouts.WorkoutSession{
		session("s1", "1/3/2025", 1, "Push Day", exLog("1", workouts.SetLog{Reps: 5, Weight: 80})),
		session("s2", "3/3/2025", 3, "Push Day", exLog("1")),
		session("s3", "2/3/2025", 2, "Leg Day", exLog("7", workouts.SetLog{Reps: 5, Weight: 100})),
		session("s4", "5/3/2025", 5, "Push Day", exLog("2", workouts.SetLog{Reps: 10, Weight: 20}), exLog("1", workouts.SetLog{Reps: 3, Weight: 85})),
	}

	var dates []string
	for entry := range analyzer.ExerciseHistory(state, "1") {
		dates = append(dates, entry.Date)
		assert.Equal(t, "1", entry.Log.ExerciseID)
		assert.NotEmpty(t, entry.Log.Sets)
	}
	assert.Equal(t, []string{"1/3/2025", "5/3/2025"}, dates)

	count := 0
	for range analyzer.ExerciseHistory(state, "1") {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestAnalyzer_VolumeSeries(t *testing.T) {
	analyzer := workouts.NewAnalyzer(workouts.DefaultDateLayout)
	state := workouts.DefaultState()
	state.Sessions = []workouts.WorkoutSession{
		session("s1", "12/3/2025", 4, "Push Day", exLog("1", workouts.SetLog{Reps: 5, Weight: 80}, workouts.SetLog{Reps: 5, Weight: 80})),
		session("s2", "2/3/2025", 1, "Push Day", exLog("1", workouts.SetLog{Reps: 10, Weight: 50})),
		session("s3", "12/3/2025", 5, "Upper", exLog("1", workouts.SetLog{Reps: 1, Weight: 100})),
		session("s4", "not a date", 6, "Upper", exLog("1", workouts.SetLog{Reps: 1, Weight: 1})),
		session("s5", "1/10/2024", 0, "Push Day", exLog("1", workouts.SetLog{Reps: 2, Weight: 60})),
	}

	points := analyzer.VolumeSeries(state, "1")
	assert.Equal(t, []workouts.ChartPoint{
		{Label: "1/10/2024", Value: 120},
		{Label: "2/3/2025", Value: 500},
		{Label: "12/3/2025", Value: 900},
		{Label: "not a date", Value: 1},
	}, points)

	labels := map[string]bool{}
	for _, p := range points {
		assert.False(t, labels[p.Label], "duplicated label %s", p.Label)
		labels[p.Label] = true
	}

	empty := analyzer.VolumeSeries(state, "99")
	require.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestAnalyzer_WeightSeries(t *testing.T) {
	analyzer := workouts.NewAnalyzer("")
	state := workouts.DefaultState()
	assert.Empty(t, analyzer.WeightSeries(state))

	state.BodyWeightLogs = []workouts.BodyWeightLog{
		{ID: "w1", Date: "1/3/2025", Weight: 83},
		{ID: "w2", Date: "15/3/2025", Weight: 82.5},
	}
	assert.Equal(t, []workouts.ChartPoint{
		{Label: "1/3/2025", Value: 83},
		{Label: "15/3/2025", Value: 82.5},
	}, analyzer.WeightSeries(state))
}

func TestAnalyzer_Sessions(t *testing.T) {
	analyzer := workouts.NewAnalyzer("")
	day := func(d int) int64 {
		return time.Date(2025, time.March, d, 18, 0, 0, 0, time.Local).UnixMilli()
	}

	state := workouts.DefaultState()
	state.Sessions = []workouts.WorkoutSession{
		session("a", "3/3/2025", day(3), "Push Day"),
		session("b", "1/3/2025", day(1), "Push Day"),
		session("c", "5/3/2025", day(5), "Leg Day"),
		session("d", "5/3/2025", day(5), "Push Day"),
	}

	ids := func(sessions []workouts.WorkoutSession) []string {
		out := []string{}
		for _, s := range sessions {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []string{"c", "d", "a", "b"}, ids(analyzer.SessionsByRecency(state)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(state.Sessions))

	from := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.Local)
	assert.Equal(t, []string{"a"}, ids(analyzer.SessionsBetween(state, from, to)))
	assert.Equal(t, []string{"c", "d", "a"}, ids(analyzer.SessionsBetween(state, from, time.Time{})))
	assert.Equal(t, []string{"a", "b"}, ids(analyzer.SessionsBetween(state, time.Time{}, to)))
	assert.Empty(t, analyzer.SessionsBetween(state, to, from))
}

func TestAnalyzer_ParseDate(t *testing.T) {
	analyzer := workouts.NewAnalyzer("")

	d, err := analyzer.ParseDate("9/3/2025")
	require.NoError(t, err)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 9, d.Day())

	_, err = analyzer.ParseDate("2025-03-09")
	assert.Error(t, err)
}
