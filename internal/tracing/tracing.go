package tracing

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "orderdesk"

// Provider owns the SDK tracer provider. A zero Provider is disabled.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider exports spans over OTLP/HTTP to endpoint (host:port) and
// installs the provider globally. An empty endpoint leaves the global no-op
// provider in place.
func NewProvider(ctx context.Context, endpoint string, sampleRate float64, logger *slog.Logger) (*Provider, error) {
	if strings.TrimSpace(endpoint) == "" {
		logger.Info("tracing disabled")
		return &Provider{}, nil
	}

	client := otlptracehttp.NewClient(otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("tracing enabled", slog.String("endpoint", endpoint), slog.Float64("sample_rate", sampleRate))
	return &Provider{tp: tp}, nil
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.tp != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// WrapHandler instruments an HTTP handler.
func WrapHandler(handler http.Handler) http.Handler {
	return otelhttp.NewHandler(handler, "http-server")
}
