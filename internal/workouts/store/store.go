package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gympro/internal/telemetry/metrics"
	"github.com/2beens/gympro/internal/telemetry/tracing"
	"github.com/2beens/gympro/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultKey names the blob in every backend.
const DefaultKey = workouts.StateKey

// ErrNotFound is returned by a Backend when no blob was ever written.
var ErrNotFound = errors.New("state blob not found")

// Backend keeps a single opaque blob.
type Backend interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, blob []byte) error
}

// StateStore loads and saves the app state through a Backend.
type StateStore struct {
	backend        Backend
	metricsManager *metrics.Manager
}

// New wraps the backend. metricsManager may be nil.
func New(backend Backend, metricsManager *metrics.Manager) *StateStore {
	return &StateStore{
		backend:        backend,
		metricsManager: metricsManager,
	}
}

func (s *StateStore) Backend() string {
	return s.backend.Name()
}

// Load returns the default state when nothing was stored yet.
func (s *StateStore) Load(ctx context.Context) (_ workouts.AppState, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.state.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("backend", s.backend.Name()))

	blob, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return workouts.DefaultState(), nil
	}
	if err != nil {
		return workouts.AppState{}, fmt.Errorf("read state from %s: %w", s.backend.Name(), err)
	}

	span.SetAttributes(attribute.Int("blob.size", len(blob)))
	return Decode(blob), nil
}

func (s *StateStore) Save(ctx context.Context, state workouts.AppState) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.state.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("backend", s.backend.Name()))

	blob, err := Encode(state)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("blob.size", len(blob)))

	if err := s.backend.Write(ctx, blob); err != nil {
		if s.metricsManager != nil {
			s.metricsManager.CounterStateSaveFailures.Inc()
		}
		return fmt.Errorf("write state to %s: %w", s.backend.Name(), err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterStateSaves.Inc()
		s.metricsManager.HistogramStateSize.Observe(float64(len(blob)))
	}
	return nil
}
