package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_RecordsAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewInProcessProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	ctx, span := StartSpan(context.Background(), tracer, "network.Preprocess", GraphAttributes(10, 20, 1.5)...)
	require.NotNil(t, ctx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "network.Preprocess", spans[0].Name())

	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.Int64(AttrGraphNodes, 10))
}

func TestStartSpan_DefaultsToPackageTracer(t *testing.T) {
	ctx, span := StartSpan(context.Background(), nil, "no-op")
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
	span.End()
}

func TestEndWithError_SetsErrorStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewInProcessProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, "network.Aggregate")
	EndWithError(span, assert.AnError)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestAggregationAttributes(t *testing.T) {
	attrs := AggregationAttributes("sum", "linear", 3, 5)
	assert.Len(t, attrs, 4)
}
