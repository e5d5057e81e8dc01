package telemetry

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewInProcessProvider builds a self-contained *sdktrace.TracerProvider with
// no exporter wired in — useful for callers (and this package's own tests)
// that want a real SDK-backed trace.Tracer whose spans can be asserted on
// with an in-process SpanProcessor, without standing up an OTLP collector.
// Pass any sdktrace.TracerProviderOption (e.g. sdktrace.WithSpanProcessor of
// an sdktrace/tracetest.SpanRecorder) to observe what the façade records.
func NewInProcessProvider(opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(opts...)
}
