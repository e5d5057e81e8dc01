// Package network implements the stateful façade over the rest of the
// module: Network holds a graph plus its cached (optional) distance table,
// and exposes Preprocess/Aggregate over it. It is the one package an
// application typically imports directly; graph/allpairs/decay/aggregate
// are its building blocks, wired together with config, logger, metrics,
// and telemetry behind one constructor.
package network

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"netdecay/aggregate"
	"netdecay/allpairs"
	"netdecay/apperror"
	"netdecay/decay"
	"netdecay/graph"
	"netdecay/logger"
	"netdecay/metrics"
	"netdecay/telemetry"
)

// Network wraps a graph plus, after Preprocess, its cached distance table.
// Between Preprocess and the next call with a different cutoff, any number
// of Aggregate calls share the cached table. Network is
// safe for concurrent Aggregate calls once Preprocess has returned; calling
// Preprocess concurrently with itself or with Aggregate is not supported —
// callers that need to re-preprocess under load should build a fresh
// Network and swap it in.
type Network[T comparable] struct {
	g      *graph.Graph[T]
	pool   *allpairs.Pool
	cutoff float64
	table  *allpairs.Table[T]

	coords      map[T]Point
	geoIndexer  NearestNodeFinder
	geoIndexIDs []T

	collector *metrics.NetworkCollector
	tracer    trace.Tracer
	log       *slog.Logger
}

// Point is a projected-CRS (x, y) coordinate, the type Network's coordinate
// map and NearestNodes operate over. It is defined locally rather than as an
// alias of orb.Point so that callers of the core façade never need to
// import github.com/paulmach/orb unless they actually use NearestNodes;
// package geoindex converts between the two at its boundary.
type Point struct{ X, Y float64 }

// Option configures a Network at construction.
type Option[T comparable] func(*Network[T])

// WithWorkerConcurrency bounds how many sources Preprocess runs
// concurrently. 0 (the default) uses runtime.GOMAXPROCS.
func WithWorkerConcurrency[T comparable](n int) Option[T] {
	return func(net *Network[T]) { net.pool = allpairs.NewPool(n) }
}

// WithMetrics attaches a *metrics.NetworkCollector; nil (the default)
// disables instrumentation at zero cost.
func WithMetrics[T comparable](c *metrics.NetworkCollector) Option[T] {
	return func(net *Network[T]) { net.collector = c }
}

// WithTracer attaches a trace.Tracer; the default is telemetry.Tracer(),
// the global (noop unless a caller has installed a provider) tracer.
func WithTracer[T comparable](t trace.Tracer) Option[T] {
	return func(net *Network[T]) { net.tracer = t }
}

// WithLogger attaches a *slog.Logger; the default is logger.Log.
func WithLogger[T comparable](l *slog.Logger) Option[T] {
	return func(net *Network[T]) { net.log = l }
}

// WithCoordinates attaches a node -> Point map used by NearestNodes and by
// Write's node table. Write fails if any graph node is absent from coords;
// the nearest-node index covers only the nodes present in coords.
func WithCoordinates[T comparable](coords map[T]Point) Option[T] {
	return func(net *Network[T]) { net.coords = coords }
}

// WithNearestNodeFinder overrides the default R-tree-backed
// NearestNodeFinder NearestNodes builds lazily from WithCoordinates, for
// callers whose geospatial index already lives elsewhere (e.g. a database).
// An index returned by finder resolves to ids[index], so finder's indices
// must line up with ids; most callers should leave this unset.
func WithNearestNodeFinder[T comparable](finder NearestNodeFinder, ids []T) Option[T] {
	return func(net *Network[T]) {
		net.geoIndexer = finder
		net.geoIndexIDs = ids
	}
}

// New constructs a Network over an already-built graph. Preprocess must be
// called before Aggregate.
func New[T comparable](g *graph.Graph[T], opts ...Option[T]) *Network[T] {
	net := &Network[T]{g: g, log: logger.Log, tracer: telemetry.Tracer()}
	for _, opt := range opts {
		opt(net)
	}
	if net.pool == nil {
		net.pool = allpairs.NewPool(0)
	}
	return net
}

// FromEdges builds the graph from raw edge triples and wraps it in a
// Network, for callers that have no reason to hold the graph.Builder
// themselves. It fails with CodeInvalidEdge on the first malformed cost.
func FromEdges[T comparable](edges []graph.Edge[T], opts ...Option[T]) (*Network[T], error) {
	g, err := graph.FromEdges(edges)
	if err != nil {
		return nil, err
	}
	return New(g, opts...), nil
}

// Preprocess runs the all-pairs bounded Dijkstra sweep and caches its
// distance table. A later Preprocess call with a different cutoff discards
// the previous table and recomputes.
func (n *Network[T]) Preprocess(ctx context.Context, cutoff float64) error {
	start := time.Now()
	correlationID := uuid.New().String()
	log := n.log.With("correlation_id", correlationID, "component", "network")

	ctx, span := telemetry.StartSpan(ctx, n.tracer, "network.Preprocess",
		telemetry.GraphAttributes(n.g.NNodes(), n.g.NEdges(), cutoff)...)
	defer span.End()

	table, err := allpairs.Run(ctx, n.g, cutoff, n.pool)
	telemetry.EndWithError(span, err)
	if err != nil {
		log.Error("preprocess failed", "error", err)
		return err
	}
	span.SetAttributes(telemetry.TableAttributes(len(table.Triples))...)

	n.table = table
	n.cutoff = cutoff
	n.collector.ObservePreprocess(time.Since(start), len(table.Triples))
	n.observeReach(table)

	log.Debug("preprocess complete", "nodes", n.g.NNodes(), "edges", n.g.NEdges(),
		"cutoff", cutoff, "triples", len(table.Triples), "duration", time.Since(start))
	return nil
}

func (n *Network[T]) observeReach(table *allpairs.Table[T]) {
	if n.collector == nil {
		return
	}
	counts := make(map[T]int)
	for _, tr := range table.Triples {
		counts[tr.From]++
	}
	for _, c := range counts {
		n.collector.ObserveReachable(c)
	}
}

// Aggregate runs the decay-weighted aggregation engine against the
// cached distance table. It returns apperror.CodeNotPreprocessed if
// Preprocess has never run, and apperror.CodeStaleCache if d's own cutoff
// exceeds the cutoff the cached table was preprocessed with — a decay wider
// than the table it's applied to would silently under-count, since the
// table itself has nothing beyond its own cutoff.
func (n *Network[T]) Aggregate(ctx context.Context, observations []aggregate.Observation[T], d decay.Decay, reducer aggregate.Reducer) (map[T]float64, error) {
	return n.AggregateWith(ctx, observations, d, reducer, nil)
}

// AggregateWith is Aggregate extended with a named map of caller-supplied
// reducers, passed through to aggregate.AggregateWith. A name in custom
// shadows a built-in reducer of the same name.
func (n *Network[T]) AggregateWith(ctx context.Context, observations []aggregate.Observation[T], d decay.Decay, reducer aggregate.Reducer, custom map[aggregate.Reducer]aggregate.ReducerFunc) (map[T]float64, error) {
	if n.table == nil {
		return nil, apperror.NotPreprocessed("Aggregate called before Preprocess")
	}
	if c := d.Cutoff(); c > 0 && c > n.cutoff {
		return nil, apperror.StaleCache(fmt.Sprintf(
			"decay cutoff %v exceeds the preprocessed cutoff %v; call Preprocess(%v) first or narrow the decay", c, n.cutoff, c))
	}

	start := time.Now()
	correlationID := uuid.New().String()
	log := n.log.With("correlation_id", correlationID, "component", "network")

	_, span := telemetry.StartSpan(ctx, n.tracer, "network.Aggregate",
		telemetry.AggregationAttributes(string(reducer), d.KindName(), len(observations), 0)...)
	defer span.End()

	out, err := aggregate.AggregateWith(n.table, observations, d, reducer, custom)
	telemetry.EndWithError(span, err)
	if err != nil {
		log.Error("aggregate failed", "error", err, "reducer", reducer)
		return nil, err
	}
	span.SetAttributes(telemetry.AggregationAttributes(string(reducer), d.KindName(), len(observations), len(out))...)

	n.collector.ObserveAggregate(time.Since(start))
	log.Debug("aggregate complete", "reducer", reducer, "decay", d.KindName(),
		"observations", len(observations), "sources", len(out), "duration", time.Since(start))
	return out, nil
}

// Cutoff returns the cutoff Preprocess last ran with, or 0 if Preprocess has
// never been called.
func (n *Network[T]) Cutoff() float64 { return n.cutoff }

// Table returns the cached distance table, or nil before Preprocess.
func (n *Network[T]) Table() *allpairs.Table[T] { return n.table }

// Graph returns the underlying graph.
func (n *Network[T]) Graph() *graph.Graph[T] { return n.g }
