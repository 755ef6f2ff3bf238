package store

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/gympro/internal/workouts"
)

// Encode serializes the whole state into the blob format.
func Encode(state workouts.AppState) ([]byte, error) {
	blob, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return blob, nil
}

// Decode never fails. Anything that is not a JSON object yields the default
// state; otherwise every top level field, and every settings field, that is
// missing, null or of the wrong shape falls back to its own default.
func Decode(blob []byte) workouts.AppState {
	state := workouts.DefaultState()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil || fields == nil {
		return state
	}

	decodeField(fields, "routines", &state.Routines)
	decodeField(fields, "sessions", &state.Sessions)
	decodeField(fields, "bodyWeightLogs", &state.BodyWeightLogs)
	decodeField(fields, "customExercises", &state.CustomExercises)
	decodeField(fields, "activeSession", &state.ActiveSession)

	var settings map[string]json.RawMessage
	if decodeField(fields, "settings", &settings) {
		var theme workouts.Theme
		if decodeField(settings, "theme", &theme) && theme.IsValid() {
			state.Settings.Theme = theme
		}
		var accent string
		if decodeField(settings, "accentColor", &accent) && accent != "" {
			state.Settings.AccentColor = accent
		}
		var pattern string
		if decodeField(settings, "bgPattern", &pattern) && pattern != "" {
			state.Settings.BgPattern = pattern
		}
	}

	return state
}

// decodeField writes fields[key] into dst only if it is present, not null and
// decodes cleanly.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}
