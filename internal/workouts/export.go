package workouts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

type RowKind string

const (
	RowKindTraining   RowKind = "Entrenamiento"
	RowKindBodyWeight RowKind = "Peso Corporal"
)

// UnknownExerciseName stands in for exercises deleted from the library.
const UnknownExerciseName = "Desconocido"

var ExportHeader = []string{"Tipo", "Fecha", "Rutina/Info", "Ejercicio", "Set", "Peso_Reps"}

type ExportRow struct {
	Kind       RowKind
	Date       string
	Info       string
	Exercise   string
	Set        string
	WeightReps string
}

func (r ExportRow) Record() []string {
	return []string{string(r.Kind), r.Date, r.Info, r.Exercise, r.Set, r.WeightReps}
}

// ExportRows flattens sessions (one row per set) followed by weigh-ins.
func ExportRows(sessions []WorkoutSession, weightLogs []BodyWeightLog, exercises []Exercise) []ExportRow {
	names := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		if _, ok := names[ex.ID]; !ok {
			names[ex.ID] = ex.Name
		}
	}

	var rows []ExportRow
	for _, s := range sessions {
		for _, l := range s.Logs {
			name := names[l.ExerciseID]
			if name == "" {
				name = UnknownExerciseName
			}
			for i, set := range l.Sets {
				rows = append(rows, ExportRow{
					Kind:       RowKindTraining,
					Date:       s.Date,
					Info:       s.RoutineID,
					Exercise:   name,
					Set:        fmt.Sprintf("Set %d", i+1),
					WeightReps: fmt.Sprintf("%skg x %d", formatNumber(set.Weight), set.Reps),
				})
			}
		}
	}

	for _, l := range weightLogs {
		rows = append(rows, ExportRow{
			Kind: RowKindBodyWeight,
			Date: l.Date,
			Info: formatNumber(l.Weight),
		})
	}

	return rows
}

// WriteCSV writes the header and the rows. Fields holding a comma or a quote
// are quoted.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportFileName(now time.Time) string {
	return fmt.Sprintf("gym_data_%s.csv", now.UTC().Format(time.DateOnly))
}

// formatNumber prints the shortest representation, 80 not 80.0.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
