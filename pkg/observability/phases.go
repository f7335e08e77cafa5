package observability

import (
	"context"
	"slices"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Phase is the accumulated wall time of every ended span sharing a name.
type Phase struct {
	Name     string
	Count    int
	Duration time.Duration
}

// PhaseRecorder is a SpanProcessor that sums span durations by span name.
// It replaces an exporter for short-lived CLI runs that only report totals.
type PhaseRecorder struct {
	phases map[string]*Phase
	order  []string
	mu     sync.Mutex
}

// NewPhaseRecorder returns an empty recorder.
func NewPhaseRecorder() *PhaseRecorder {
	return &PhaseRecorder{phases: make(map[string]*Phase)}
}

// OnStart is a no-op.
func (pr *PhaseRecorder) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd adds the span duration to its phase.
func (pr *PhaseRecorder) OnEnd(span sdktrace.ReadOnlySpan) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	name := span.Name()

	phase, ok := pr.phases[name]
	if !ok {
		phase = &Phase{Name: name}
		pr.phases[name] = phase
		pr.order = append(pr.order, name)
	}

	phase.Count++
	phase.Duration += span.EndTime().Sub(span.StartTime())
}

// Shutdown is a no-op.
func (pr *PhaseRecorder) Shutdown(context.Context) error {
	return nil
}

// ForceFlush is a no-op.
func (pr *PhaseRecorder) ForceFlush(context.Context) error {
	return nil
}

// Phases returns the recorded phases in the order they first ended.
func (pr *PhaseRecorder) Phases() []Phase {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	out := make([]Phase, 0, len(pr.order))
	for _, name := range pr.order {
		out = append(out, *pr.phases[name])
	}

	return slices.Clip(out)
}
