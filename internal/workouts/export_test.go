package workouts_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gympro/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRows(t *testing.T) {
	sessions := []workouts.WorkoutSession{
		session("s1", "9/3/2025", 1, "Push Day",
			exLog("1", workouts.SetLog{Reps: 5, Weight: 80}, workouts.SetLog{Reps: 3, Weight: 82.5}),
			exLog("gone", workouts.SetLog{Reps: 12, Weight: 10}),
			exLog("2"),
		),
	}
	weightLogs := []workouts.BodyWeightLog{{ID: "w1", Date: "9/3/2025", Weight: 82.5}}

	rows := workouts.ExportRows(sessions, weightLogs, workouts.DefaultExercises())
	assert.Equal(t, []workouts.ExportRow{
		{Kind: workouts.RowKindTraining, Date: "9/3/2025", Info: "Push Day", Exercise: "Press de Banca", Set: "Set 1", WeightReps: "80kg x 5"},
		{Kind: workouts.RowKindTraining, Date: "9/3/2025", Info: "Push Day", Exercise: "Press de Banca", Set: "Set 2", WeightReps: "82.5kg x 3"},
		{Kind: workouts.RowKindTraining, Date: "9/3/2025", Info: "Push Day", Exercise: workouts.UnknownExerciseName, Set: "Set 1", WeightReps: "10kg x 12"},
		{Kind: workouts.RowKindBodyWeight, Date: "9/3/2025", Info: "82.5"},
	}, rows)
}

func TestWriteCSV(t *testing.T) {
	rows := []workouts.ExportRow{
		{Kind: workouts.RowKindTraining, Date: "9/3/2025", Info: "Push, Pull", Exercise: `Press "Banca"`, Set: "Set 1", WeightReps: "80kg x 5"},
		{Kind: workouts.RowKindBodyWeight, Date: "9/3/2025", Info: "82.5"},
	}

	var buf bytes.Buffer
	require.NoError(t, workouts.WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Tipo,Fecha,Rutina/Info,Ejercicio,Set,Peso_Reps", lines[0])
	assert.Equal(t, `Entrenamiento,9/3/2025,"Push, Pull","Press ""Banca""",Set 1,80kg x 5`, lines[1])
	assert.Equal(t, "Peso Corporal,9/3/2025,82.5,,,", lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, workouts.WriteCSV(&buf, nil))
	assert.Equal(t, "Tipo,Fecha,Rutina/Info,Ejercicio,Set,Peso_Reps\n", buf.String())
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, time.March, 9, 23, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "gym_data_2025-03-09.csv", workouts.ExportFileName(now))

	lateUTC := time.Date(2025, time.March, 10, 0, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "gym_data_2025-03-09.csv", workouts.ExportFileName(lateUTC))
}
