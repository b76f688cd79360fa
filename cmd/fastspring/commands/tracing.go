package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

var tracingEnabled bool

// otlpEndpoint returns the configured OTLP traces endpoint, if any.
func otlpEndpoint() string {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	return endpoint
}

// SetupTracing installs an OTLP trace exporter when OTEL_EXPORTER_OTLP_* is
// set. The returned shutdown func is nil when tracing stays off.
func SetupTracing(ctx context.Context) (func(context.Context) error, error) {
	endpoint := otlpEndpoint()
	if endpoint == "" {
		return nil, nil
	}

	var opts []otlptracehttp.Option
	if strings.HasPrefix(strings.ToLower(endpoint), "http://") {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName("fastspring-cli")))
	if err != nil {
		return nil, fmt.Errorf("creating trace resource: %w", err)
	}

	provider := trace.NewTracerProvider(trace.WithBatcher(exporter), trace.WithResource(res))
	otel.SetTracerProvider(provider)

	tracingEnabled = true

	return provider.Shutdown, nil
}

// traced wraps handler in otelhttp when tracing is on.
func traced(handler http.Handler, operation string) http.Handler {
	if !tracingEnabled {
		return handler
	}

	return otelhttp.NewHandler(handler, operation)
}
