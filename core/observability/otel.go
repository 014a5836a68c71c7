// Package observability wires OpenTelemetry traces and metrics for the
// gateway. Everything is off unless NWSLGATE_OTEL_ENABLED is set; the
// exporters speak OTLP over gRPC.
package observability

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
)

var (
	tracerProvider *trace.TracerProvider
	metricProvider *metric.MeterProvider
)

// Config controls observability behavior, populated from NWSLGATE_OTEL_* vars
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
	SamplingRate   float64
}

// ResolveConfig builds the observability config from the environment
func ResolveConfig(serviceVersion string) Config {
	cfg := Config{
		Enabled:        false,
		ServiceName:    "nwslgate",
		ServiceVersion: serviceVersion,
		OTLPEndpoint:   "localhost:4317",
		SamplingRate:   1.0,
	}

	if raw := os.Getenv("NWSLGATE_OTEL_ENABLED"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			cfg.Enabled = parsed
		}
	}
	if v := os.Getenv("NWSLGATE_OTEL_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("NWSLGATE_OTEL_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if raw := os.Getenv("NWSLGATE_OTEL_TRACE_SAMPLING_RATIO"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.SamplingRate = parsed
		}
	}
	if cfg.SamplingRate < 0 {
		cfg.SamplingRate = 0
	}
	if cfg.SamplingRate > 1 {
		cfg.SamplingRate = 1
	}

	return cfg
}

// Initialize sets up OpenTelemetry tracing and metrics per the config.
// A disabled config is a no-op.
func Initialize(cfg Config) error {
	if !cfg.Enabled {
		return nil
	}

	log := logging.New("observability")
	log.Infof("Initializing OpenTelemetry")

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	if err := initTracing(ctx, res, cfg); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := initMetrics(ctx, res, cfg.OTLPEndpoint); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Infof("OpenTelemetry initialized (endpoint: %s)", cfg.OTLPEndpoint)
	return nil
}

func initTracing(ctx context.Context, res *resource.Resource, cfg Config) error {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(), // Use TLS in production
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider = trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(cfg.SamplingRate)),
	)

	otel.SetTracerProvider(tracerProvider)
	return nil
}

func initMetrics(ctx context.Context, res *resource.Resource, endpoint string) error {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(), // Use TLS in production
	)
	if err != nil {
		return fmt.Errorf("failed to create metric exporter: %w", err)
	}

	metricProvider = metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithInterval(10*time.Second),
		)),
		metric.WithResource(res),
	)

	otel.SetMeterProvider(metricProvider)
	return nil
}

// Shutdown gracefully shuts down the observability components
func Shutdown(ctx context.Context) error {
	var errs []error

	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if metricProvider != nil {
		if err := metricProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metric provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
