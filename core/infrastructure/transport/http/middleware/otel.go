package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// Tracing wraps the handler chain in an OpenTelemetry server span. When
// no provider is configured this is effectively a no-op passthrough.
func Tracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(
		next,
		"",
		otelhttp.WithPropagators(otel.GetTextMapPropagator()),
		otelhttp.WithTracerProvider(otel.GetTracerProvider()),
	)
}
