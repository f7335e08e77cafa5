// Package observability wires logging, tracing and metrics for rbset: slog
// records carry the active span, and OTel instruments are exported through a
// private Prometheus registry.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "rbset"
	tracerName  = "rbset"
	meterName   = "rbset"
)

// Providers holds the initialized observability providers.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Registry receives every instrument created from Meter.
	Registry *prometheus.Registry

	// Phases sums the durations of ended spans by name.
	Phases *PhaseRecorder

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Init creates in-process tracer and meter providers. Spans are sampled so
// log records get trace ids and phase totals; nothing leaves the process.
func Init() (*Providers, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	phases := NewPhaseRecorder()
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(phases),
	)

	return &Providers{
		Tracer:         tracerProvider.Tracer(tracerName),
		Meter:          meterProvider.Meter(meterName),
		Registry:       registry,
		Phases:         phases,
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
	}, nil
}

// Shutdown flushes and stops both providers.
func (prov *Providers) Shutdown(ctx context.Context) error {
	traceErr := prov.tracerProvider.Shutdown(ctx)
	meterErr := prov.meterProvider.Shutdown(ctx)

	err := errors.Join(traceErr, meterErr)
	if err != nil {
		return fmt.Errorf("shutdown observability: %w", err)
	}

	return nil
}
