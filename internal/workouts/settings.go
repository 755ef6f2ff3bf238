package workouts

import "strings"

// SettingsUpdate changes one field of AppSettings.
// Implemented by SetTheme, SetAccentColor and SetBackgroundPattern.
type SettingsUpdate interface {
	applyTo(AppSettings) (AppSettings, bool)
}

type (
	SetTheme             Theme
	SetAccentColor       string
	SetBackgroundPattern string
)

func (u SetTheme) applyTo(s AppSettings) (AppSettings, bool) {
	theme := Theme(strings.ToLower(string(u)))
	if !theme.IsValid() {
		return s, false
	}
	s.Theme = theme
	return s, true
}

// Any non empty color is accepted, the palette is only a suggestion.
func (u SetAccentColor) applyTo(s AppSettings) (AppSettings, bool) {
	color := strings.TrimSpace(string(u))
	if color == "" {
		return s, false
	}
	s.AccentColor = color
	return s, true
}

func (u SetBackgroundPattern) applyTo(s AppSettings) (AppSettings, bool) {
	if !IsBgPattern(string(u)) {
		return s, false
	}
	s.BgPattern = string(u)
	return s, true
}

// UpdateSettings applies every update in order. Invalid updates are skipped;
// ok reports whether at least one was applied.
func (t *Tracker) UpdateSettings(state AppState, updates ...SettingsUpdate) (_ AppState, ok bool) {
	settings := state.Settings
	for _, u := range updates {
		if u == nil {
			continue
		}
		var applied bool
		settings, applied = u.applyTo(settings)
		ok = ok || applied
	}
	state.Settings = settings
	return state, ok
}
