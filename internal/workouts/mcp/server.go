package mcp

import (
	"github.com/2beens/gympro/internal/telemetry/metrics"
	"github.com/2beens/gympro/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ServerName = "gympro-context"

// NewServer builds an MCP server with read only workout tools: routines,
// exercises, exercise history, volume series, body weight and sessions.
// Served over stdio by cmd/gympro_mcp and mounted at /mcp by the main service.
func NewServer(service *workouts.Service, metricsManager *metrics.Manager, version string) *mcp.Server {
	h := NewHandler(NewContextService(service), metricsManager)
	return newServer(h, version)
}

func newServer(h *Handler, version string) *mcp.Server {
	if version == "" {
		version = "1.0.0"
	}
	s := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_routines",
		Description: "Returns every routine with its exercises (id, name, muscle group) in routine order. Use when you need to know how the training week is organized.",
	}, h.GetRoutinesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercises",
		Description: "Returns the exercise library in display order. Optional filter: muscle_group (Pecho, Espalda, Piernas, Hombros, Brazos, Core or the english names).",
	}, h.GetExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_history",
		Description: "Returns, per session, the logged sets (reps, weight, note) of an exercise. Arg: exercise (id or name). Use when you need to see how an exercise progressed set by set.",
	}, h.GetExerciseHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_volume_series",
		Description: "Returns the training volume (sum of weight x reps) of an exercise per day, oldest first. Arg: exercise (id or name).",
	}, h.GetVolumeSeriesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_body_weight",
		Description: "Returns the body weight log, the latest weigh-in and whether a new weigh-in is due.",
	}, h.GetBodyWeightTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_sessions_for_date_range",
		Description: "Returns the workout sessions within the date range, newest first. Args: from_date, to_date (YYYY-MM-DD).",
	}, h.GetSessionsForDateRangeTool())

	return s
}
