package workouts

// StateKey is the key the whole state blob is stored under.
const StateKey = "gympro_minimal_state_v4"

const (
	DefaultAccentColor = "#34C759"
	BgPatternNone      = "none"
)

type AccentColor struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AccentColors is the palette offered by the settings view.
var AccentColors = []AccentColor{
	{Name: "Bosque", Color: "#1B4332"},
	{Name: "Apple", Color: DefaultAccentColor},
	{Name: "Azul", Color: "#007AFF"},
	{Name: "Índigo", Color: "#5856D6"},
	{Name: "Naranja", Color: "#FF9500"},
	{Name: "Rojo", Color: "#FF3B30"},
	{Name: "Púrpura", Color: "#AF52DE"},
	{Name: "Teal", Color: "#5AC8FA"},
}

type BgPattern struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var BgPatterns = []BgPattern{
	{ID: BgPatternNone, Name: "Liso"},
	{ID: "plate", Name: "Disco"},
	{ID: "dumbbell", Name: "Mancuerna"},
	{ID: "kettlebell", Name: "Kettlebell"},
	{ID: "flex", Name: "Fuerza"},
}

func IsBgPattern(id string) bool {
	for _, p := range BgPatterns {
		if p.ID == id {
			return true
		}
	}
	return false
}

func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:       ThemeLight,
		AccentColor: DefaultAccentColor,
		BgPattern:   BgPatternNone,
	}
}

// DefaultExercises is the library a fresh install starts with.
// A new slice is returned on every call.
func DefaultExercises() []Exercise {
	return []Exercise{
		{ID: "1", Name: "Press de Banca", MuscleGroup: MuscleGroupChest},
		{ID: "2", Name: "Press Inclinado con Mancuernas", MuscleGroup: MuscleGroupChest},
		{ID: "3", Name: "Aperturas", MuscleGroup: MuscleGroupChest},
		{ID: "4", Name: "Dominadas", MuscleGroup: MuscleGroupBack},
		{ID: "5", Name: "Remo con Barra", MuscleGroup: MuscleGroupBack},
		{ID: "6", Name: "Jalón al Pecho", MuscleGroup: MuscleGroupBack},
		{ID: "7", Name: "Sentadilla", MuscleGroup: MuscleGroupLegs},
		{ID: "8", Name: "Peso Muerto", MuscleGroup: MuscleGroupLegs},
		{ID: "9", Name: "Prensa", MuscleGroup: MuscleGroupLegs},
		{ID: "10", Name: "Press Militar", MuscleGroup: MuscleGroupShoulders},
		{ID: "11", Name: "Elevaciones Laterales", MuscleGroup: MuscleGroupShoulders},
		{ID: "12", Name: "Curl de Bíceps", MuscleGroup: MuscleGroupArms},
		{ID: "13", Name: "Extensión de Tríceps", MuscleGroup: MuscleGroupArms},
		{ID: "14", Name: "Plancha", MuscleGroup: MuscleGroupCore},
		{ID: "15", Name: "Crunch", MuscleGroup: MuscleGroupCore},
	}
}

// DefaultState is what Load returns when nothing is stored yet.
func DefaultState() AppState {
	return AppState{
		Routines:        []Routine{},
		Sessions:        []WorkoutSession{},
		BodyWeightLogs:  []BodyWeightLog{},
		CustomExercises: DefaultExercises(),
		Settings:        DefaultSettings(),
	}
}
