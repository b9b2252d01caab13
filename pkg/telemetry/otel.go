package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for Kalx.
const defaultTracerName = "kalx"

// Tracer wraps an OpenTelemetry tracer for render-cycle spans. The zero
// value is unusable; NewTracer resolves against the global provider, which
// yields no-op spans unless the embedder installed a real one.
type Tracer struct {
	tracer trace.Tracer
}

// TracerOption configures the Tracer.
type TracerOption func(*tracerConfig)

type tracerConfig struct {
	name     string
	provider trace.TracerProvider
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *tracerConfig) {
		c.name = name
	}
}

// WithTracerProvider sets an explicit provider instead of the global one.
func WithTracerProvider(provider trace.TracerProvider) TracerOption {
	return func(c *tracerConfig) {
		c.provider = provider
	}
}

// NewTracer creates a render-cycle tracer.
func NewTracer(opts ...TracerOption) *Tracer {
	config := tracerConfig{name: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.provider == nil {
		config.provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: config.provider.Tracer(config.name)}
}

// StartRender opens a span covering one render cycle. The returned end
// function records the patch count and any error before closing the span.
func (t *Tracer) StartRender(ctx context.Context, trigger string) (context.Context, func(patchCount int, err error)) {
	if t == nil {
		return ctx, func(int, error) {}
	}

	ctx, span := t.tracer.Start(ctx, "kalx.render",
		trace.WithAttributes(attribute.String("kalx.trigger", trigger)))

	return ctx, func(patchCount int, err error) {
		span.SetAttributes(attribute.Int("kalx.patch_count", patchCount))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// StartEvent opens a span covering one client event dispatch.
func (t *Tracer) StartEvent(ctx context.Context, event string) (context.Context, func(err error)) {
	if t == nil {
		return ctx, func(error) {}
	}

	ctx, span := t.tracer.Start(ctx, "kalx.event",
		trace.WithAttributes(attribute.String("kalx.event", event)))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
