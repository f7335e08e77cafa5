package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/rbset/pkg/config"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrCommand = "command"
)

// TracingHandler is an [slog.Handler] that injects OpenTelemetry trace context
// (trace_id, span_id) and service metadata into every log record.
// Service attributes are pre-attached at construction so they stay at the top
// level even when groups are used.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps an [slog.Handler], injecting trace context plus the
// service and command names.
func NewTracingHandler(inner slog.Handler, service, command string) *TracingHandler {
	attrs := []slog.Attr{slog.String(attrService, service)}

	if command != "" {
		attrs = append(attrs, slog.String(attrCommand, command))
	}

	return &TracingHandler{
		inner: inner.WithAttrs(attrs),
	}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds trace context attributes from the span context, then delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	err := th.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs returns a new TracingHandler with additional attributes on the inner handler.
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{
		inner: th.inner.WithAttrs(attrs),
	}
}

// WithGroup returns a new TracingHandler with a group prefix on the inner handler.
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{
		inner: th.inner.WithGroup(name),
	}
}

// NewLogger builds the logger described by cfg, writing to out.
func NewLogger(cfg config.LoggingConfig, out io.Writer, command string) (*slog.Logger, error) {
	var level slog.Level

	levelErr := level.UnmarshalText([]byte(strings.ToLower(cfg.Level)))
	if levelErr != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidLogLevel, levelErr)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if cfg.Format == config.LogFormatJSON {
		inner = slog.NewJSONHandler(out, handlerOpts)
	} else {
		inner = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(NewTracingHandler(inner, serviceName, command)), nil
}
