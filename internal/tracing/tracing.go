// Package tracing wires optional OTLP/gRPC tracing around the collector's
// Resolve/Report RPCs. It is inert
// unless OTEL_EXPORTER_OTLP_ENDPOINT is set, in which case it exports spans
// over the declared (but, in the teacher repo, dormant) grpc/otel stack.
package tracing

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the package-wide tracer used by the collector's RPC handlers;
// it is a no-op tracer until Setup installs a real provider.
var Tracer trace.Tracer = otel.Tracer("citrace")

// Shutdown flushes and stops the tracer provider; it is a no-op when Setup
// was never called (OTEL_EXPORTER_OTLP_ENDPOINT unset).
var Shutdown = func(context.Context) error { return nil }

// Setup installs an OTLP/gRPC tracer provider named service when
// OTEL_EXPORTER_OTLP_ENDPOINT is present in the environment; otherwise it
// leaves the no-op tracer in place.
func Setup(ctx context.Context, service string) error {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return nil
	}

	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return fmt.Errorf("tracing: build otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", service)))
	if err != nil {
		return fmt.Errorf("tracing: build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("citrace")
	Shutdown = provider.Shutdown
	return nil
}
