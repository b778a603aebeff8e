package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
)

// Default tracer name.
const defaultTracerName = "hydra"

// TraceConfig configures the OpenTelemetry hooks.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "hydra").
	TracerName string

	// Provider is the tracer provider. Default: the global provider.
	Provider trace.TracerProvider

	// Context is the parent context of every span (default: background).
	Context context.Context
}

// TraceOption configures the OpenTelemetry hooks.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(c *TraceConfig) {
		c.Provider = tp
	}
}

// WithContext sets the parent context of spans.
func WithContext(ctx context.Context) TraceOption {
	return func(c *TraceConfig) {
		c.Context = ctx
	}
}

// Tracing records mounts, hydrations and flushes as spans. Spans are
// created after the fact with explicit timestamps. Mismatches, stale
// updates and controller binds are recorded as events on the span of the
// configured context, if any.
type Tracing struct {
	tracer trace.Tracer
	ctx    context.Context
}

// OpenTelemetry creates tracing hooks.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in main() before mounting:
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...TraceOption) *Tracing {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Tracing{
		tracer: config.Provider.Tracer(config.TracerName),
		ctx:    config.Context,
	}
}

func (t *Tracing) span(name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := t.tracer.Start(t.ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}

// MountDone implements Hooks.
func (t *Tracing) MountDone(d time.Duration, err error) {
	t.span("hydra.mount", d, err)
}

// HydrateDone implements Hooks.
func (t *Tracing) HydrateDone(d time.Duration, mismatches int, err error) {
	t.span("hydra.hydrate", d, err, attribute.Int("hydra.mismatches", mismatches))
}

// FlushDone implements Hooks.
func (t *Tracing) FlushDone(info state.FlushInfo) {
	t.span("hydra.flush", info.Duration, info.Err,
		attribute.Int("hydra.cells", info.Cells),
		attribute.Int("hydra.rerendered", info.Rerendered),
		attribute.Int("hydra.skipped", info.Skipped),
	)
}

// Mutation implements Hooks. Mutations are too frequent to trace.
func (t *Tracing) Mutation(dom.MutationKind) {}

// HydrationMismatch implements Hooks.
func (t *Tracing) HydrationMismatch(kind string) {
	span := trace.SpanFromContext(t.ctx)
	span.AddEvent("hydra.hydration_mismatch", trace.WithAttributes(attribute.String("kind", kind)))
}

// StaleUpdate implements Hooks.
func (t *Tracing) StaleUpdate() {
	span := trace.SpanFromContext(t.ctx)
	span.AddEvent("hydra.stale_update")
}

// ControllerBound implements Hooks.
func (t *Tracing) ControllerBound(typ string) {
	span := trace.SpanFromContext(t.ctx)
	span.AddEvent("hydra.controller_bound", trace.WithAttributes(attribute.String("type", typ)))
}
