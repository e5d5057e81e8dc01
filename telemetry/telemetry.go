// Package telemetry provides the attribute-key constants and span helpers
// package network wraps Preprocess/Aggregate with. netdecay never dials an
// OTLP collector itself (it is a library with no transport layer), so this
// package never constructs an exporter, and builds a TracerProvider only
// when a caller asks for one via NewInProcessProvider. Spans are started
// against whatever trace.Tracer the caller supplies (or the global noop
// tracer by default), so tracing costs nothing unless a caller has wired
// its own otel/sdk provider.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used by the graph and aggregation spans.
const (
	AttrGraphNodes      = "graph.nodes"
	AttrGraphEdges      = "graph.edges"
	AttrGraphCutoff     = "graph.cutoff"
	AttrTableTriples    = "table.triples"
	AttrReducer         = "aggregation.reducer"
	AttrDecayKind       = "aggregation.decay_kind"
	AttrSources         = "aggregation.sources"
	AttrObservationSize = "aggregation.observation_count"
)

// GraphAttributes describes a preprocess call: graph size and the cutoff it
// ran with.
func GraphAttributes(nodes, edges int, cutoff float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Float64(AttrGraphCutoff, cutoff),
	}
}

// TableAttributes describes the distance table a preprocess call produced.
func TableAttributes(triples int) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int(AttrTableTriples, triples)}
}

// AggregationAttributes describes an aggregate call: which reducer and
// decay kind ran, how many observations fed it, and how many source rows
// came back.
func AggregationAttributes(reducer, decayKind string, observations, sources int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrReducer, reducer),
		attribute.String(AttrDecayKind, decayKind),
		attribute.Int(AttrObservationSize, observations),
		attribute.Int(AttrSources, sources),
	}
}

// Tracer defaults to the global (noop, unless a caller has called
// otel.SetTracerProvider) tracer for this package's instrumentation scope.
// package network accepts an explicit trace.Tracer in its options and falls
// back to this when none is given.
func Tracer() trace.Tracer {
	return otel.Tracer("netdecay")
}

// StartSpan starts a span named name on tracer (or the package default
// Tracer if tracer is nil), with the given starting attributes.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndWithError records err on span (if non-nil) before the caller's deferred
// span.End(), setting the span status to Error; a nil err sets status Ok.
func EndWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
