package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/gympro/internal/telemetry/metrics"
	"github.com/2beens/gympro/internal/telemetry/tracing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Handler handles MCP tool requests: parses input, calls the service, formats the MCP result.
type Handler struct {
	service        contextService
	metricsManager *metrics.Manager
}

// NewHandler builds a handler with the given service. metricsManager may be nil.
func NewHandler(service contextService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// instrument wraps a tool with a span and the tool calls counter.
func instrument[In any](
	h *Handler,
	tool string,
	fn func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error),
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		ctx, span := tracing.GlobalTracer.Start(ctx, "mcp.tool."+tool)
		defer span.End()

		res, out, err := fn(ctx, req, in)
		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		if h.metricsManager != nil {
			h.metricsManager.CounterMCPToolCalls.WithLabelValues(tool, status).Inc()
		}
		log.Tracef("mcp tool %s: %s", tool, status)
		return res, out, err
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}

// NoInput is the input of the tools without arguments.
type NoInput struct{}

// GetRoutinesTool returns the MCP tool handler for get_routines.
func (h *Handler) GetRoutinesTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return instrument(h, "get_routines", func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		routines, err := h.service.Routines(ctx)
		if err != nil {
			return errorResult("Error fetching routines: " + err.Error()), nil, nil
		}
		return jsonResult(routines), nil, nil
	})
}

// ExercisesInput is the input for get_exercises.
type ExercisesInput struct {
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Filter by muscle group (e.g. Pecho or chest, Piernas or legs)"`
}

// GetExercisesTool returns the MCP tool handler for get_exercises.
func (h *Handler) GetExercisesTool() func(context.Context, *mcp.CallToolRequest, ExercisesInput) (*mcp.CallToolResult, any, error) {
	return instrument(h, "get_exercises", func(ctx context.Context, _ *mcp.CallToolRequest, in ExercisesInput) (*mcp.CallToolResult, any, error) {
		exercises, err := h.service.Exercises(ctx, in.MuscleGroup)
		if err != nil {
			return errorResult("Error fetching exercises: " + err.Error()), nil, nil
		}
		return jsonResult(exercises), nil, nil
	})
}

// ExerciseInput is the input for get_exercise_history and get_volume_series.
type ExerciseInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise id or exact exercise name (e.g. 1 or Press de Banca)"`
}

// GetExerciseHistoryTool returns the MCP tool handler for get_exercise_history.
func (h *Handler) GetExerciseHistoryTool() func(context.Context, *mcp.CallToolRequest, ExerciseInput) (*mcp.CallToolResult, any, error) {
	return instrument(h, "get_exercise_history", func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseInput) (*mcp.CallToolResult, any, error) {
		if in.Exercise == "" {
			return errorResult("Missing exercise: pass an exercise id or name"), nil, nil
		}
		history, err := h.service.ExerciseHistory(ctx, in.Exercise)
		if err != nil {
			return errorResult("Error fetching exercise history: " + err.Error()), nil, nil
		}
		return jsonResult(history), nil, nil
	})
}

// GetVolumeSeriesTool returns the MCP tool handler for get_volume_series.
func (h *Handler) GetVolumeSeriesTool() func(context.Context, *mcp.CallToolRequest, ExerciseInput) (*mcp.CallToolResult, any, error) {
	return instrument(h, "get_volume_series", func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseInput) (*mcp.CallToolResult, any, error) {
		if in.Exercise == "" {
			return errorResult("Missing exercise: pass an exercise id or name"), nil, nil
		}
		series, err := h.service.VolumeSeries(ctx, in.Exercise)
		if err != nil {
			return errorResult("Error fetching volume series: " + err.Error()), nil, nil
		}
		return jsonResult(series), nil, nil
	})
}

// GetBodyWeightTool returns the MCP tool handler for get_body_weight.
func (h *Handler) GetBodyWeightTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return instrument(h, "get_body_weight", func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		weight, err := h.service.BodyWeight(ctx)
		if err != nil {
			return errorResult("Error fetching body weight: " + err.Error()), nil, nil
		}
		return jsonResult(weight), nil, nil
	})
}

// SessionsTimeRangeInput is the input for get_sessions_for_date_range.
type SessionsTimeRangeInput struct {
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

// GetSessionsForDateRangeTool returns the MCP tool handler for get_sessions_for_date_range.
func (h *Handler) GetSessionsForDateRangeTool() func(context.Context, *mcp.CallToolRequest, SessionsTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return instrument(h, "get_sessions_for_date_range", func(ctx context.Context, _ *mcp.CallToolRequest, in SessionsTimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, err := time.ParseInLocation(dateLayout, in.FromDate, time.Local)
		if err != nil {
			return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := time.ParseInLocation(dateLayout, in.ToDate, time.Local)
		if err != nil {
			return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
		}
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

		sessions, err := h.service.SessionsBetween(ctx, from, to)
		if err != nil {
			return errorResult("Error listing sessions: " + err.Error()), nil, nil
		}
		return jsonResult(sessions), nil, nil
	})
}
