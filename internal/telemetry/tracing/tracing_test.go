package tracing_test

import (
	"errors"
	"testing"

	"github.com/2beens/gympro/internal/telemetry/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestEndSpanWithErrCheck(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, okSpan := tracer.Start(t.Context(), "ok")
	tracing.EndSpanWithErrCheck(okSpan, nil)

	_, failedSpan := tracer.Start(t.Context(), "failed")
	tracing.EndSpanWithErrCheck(failedSpan, errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "ok", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Empty(t, ended[0].Events())

	assert.Equal(t, "failed", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "boom", ended[1].Status().Description)
	require.Len(t, ended[1].Events(), 1)
	assert.Equal(t, "exception", ended[1].Events()[0].Name)
}

func TestHoneycombSetup_Disabled(t *testing.T) {
	shutdown, err := tracing.HoneycombSetup(false, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()
}
