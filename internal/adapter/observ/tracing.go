package observ

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitTracing installs a global tracer provider and W3C propagators.
// No exporter is configured; spans still carry trace context to downstream services.
func InitTracing(log *slog.Logger, sampleRatio float64) *sdktrace.TracerProvider {
	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))
	if sampleRatio >= 1 {
		sampler = sdktrace.AlwaysSample()
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sampler))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))
	log.Info("tracing provider initialized", "sample_ratio", sampleRatio)
	return tp
}

// ShutdownTracing flushes the provider; errors are logged, not returned.
func ShutdownTracing(ctx context.Context, log *slog.Logger, tp *sdktrace.TracerProvider) {
	if tp == nil {
		return
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Warn("tracing shutdown", "err", err)
	}
}
