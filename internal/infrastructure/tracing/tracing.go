// Package tracing sets up OpenTelemetry distributed tracing. The order
// commit transaction (§4.5) and its collaborators (geocode, payment
// authorize, inventory lock) are the spans worth correlating across a
// request: a slow or failed order placement otherwise looks like a single
// opaque HTTP latency number.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config configures the OTLP HTTP exporter.
type Config struct {
	ServiceName    string
	Environment    string
	CollectorURL   string // host:port of the OTLP HTTP collector, e.g. "localhost:4318"
	SampleRatio    float64
	Insecure       bool
}

// Shutdown flushes and closes the tracer provider.
type Shutdown func(ctx context.Context) error

// Setup installs a global TracerProvider exporting to an OTLP HTTP
// collector and returns a Shutdown func to flush spans on process exit.
func Setup(ctx context.Context, cfg Config) (Shutdown, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.CollectorURL)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 {
		ratio = 1.0
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)

	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

// Tracer returns the named tracer off the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
