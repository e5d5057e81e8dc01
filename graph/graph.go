// Package graph provides the core data structure for the network-decayed
// aggregation engine: an immutable directed weighted graph stored in
// compressed sparse row (CSR) form, plus the bounded single-source Dijkstra
// that is the hot path of the all-pairs driver in package allpairs.
//
// # Thread Safety
//
// A built Graph is immutable and safe for concurrent reads from any number
// of goroutines, which is what lets the all-pairs driver run one Dijkstra per
// source in parallel against a single shared Graph. Builder is not
// thread-safe; build the graph on one goroutine before sharing it.
package graph

import (
	"fmt"
	"math"

	"netdecay/apperror"
)

// index is the dense, zero-based node identifier used internally by the CSR
// representation and by Dijkstra. External ids are mapped to indices once,
// at build time, so the hot loop never hashes or allocates.
type index = uint32

// edge is one CSR adjacency-list entry: the destination index and the edge's
// cost. Costs are always > 0 (enforced by the Builder).
type edge struct {
	to   index
	cost float64
}

// Graph is an immutable directed weighted graph over external ids of type T.
// Edges are stored in CSR form: node i's out-edges occupy
// adj[offsets[i]:offsets[i+1]].
type Graph[T comparable] struct {
	toIndex    map[T]index
	toExternal []T

	offsets []int32 // len N+1
	adj     []edge  // len |E|
}

// NNodes returns the number of distinct nodes seen by the builder (both
// edge endpoints and isolated nodes registered explicitly).
func (g *Graph[T]) NNodes() int { return len(g.toExternal) }

// NEdges returns the total number of directed edges in the graph.
func (g *Graph[T]) NEdges() int { return len(g.adj) }

// IndexOf returns the dense index for an external id, and whether it exists.
func (g *Graph[T]) IndexOf(id T) (int, bool) {
	i, ok := g.toIndex[id]
	return int(i), ok
}

// ExternalID returns the external id for a dense index. Panics if idx is out
// of range; callers that only ever pass indices returned by this package are
// always in range.
func (g *Graph[T]) ExternalID(idx int) T {
	return g.toExternal[idx]
}

// HasOutEdges reports whether node idx has at least one outgoing edge. The
// all-pairs driver uses this to decide whether idx participates as a source
// row; nodes with no outgoing edges are omitted from the table.
func (g *Graph[T]) HasOutEdges(idx int) bool {
	return g.offsets[idx+1] > g.offsets[idx]
}

// EdgeTriple is a decoded (from, to, cost) edge in external-id form, the
// inverse of the CSR's internal adjacency entries. Used by persistence and
// introspection callers (package store, via package network); the hot
// Dijkstra path never calls this.
type EdgeTriple[T comparable] struct {
	From T
	To   T
	Cost float64
}

// Edges returns every edge in the graph as external-id triples, in CSR
// order (grouped by source index, per-source order as stored).
func (g *Graph[T]) Edges() []EdgeTriple[T] {
	out := make([]EdgeTriple[T], 0, len(g.adj))
	for from := 0; from < len(g.toExternal); from++ {
		start, end := g.offsets[from], g.offsets[from+1]
		for k := start; k < end; k++ {
			e := g.adj[k]
			out = append(out, EdgeTriple[T]{From: g.toExternal[from], To: g.toExternal[e.to], Cost: e.cost})
		}
	}
	return out
}

// Edge is a single (from, to, cost) input triple consumed by FromEdges.
type Edge[T comparable] struct {
	From T
	To   T
	Cost float64
}

// Builder assembles a Graph incrementally. Use NewBuilder, add edges (and
// optionally isolated nodes), then Build.
type Builder[T comparable] struct {
	toIndex    map[T]index
	toExternal []T
	edges      []Edge[T]
}

// NewBuilder creates an empty Builder.
func NewBuilder[T comparable]() *Builder[T] {
	return &Builder[T]{toIndex: make(map[T]index)}
}

func (b *Builder[T]) internID(id T) index {
	if idx, ok := b.toIndex[id]; ok {
		return idx
	}
	idx := index(len(b.toExternal))
	b.toIndex[id] = idx
	b.toExternal = append(b.toExternal, id)
	return idx
}

// AddNode registers id as present in the graph even if it has no edges yet.
// This is how the id map can contain isolated nodes that the CSR adjacency
// never otherwise mentions.
func (b *Builder[T]) AddNode(id T) {
	b.internID(id)
}

// AddEdge appends one directed edge. cost must be positive and finite;
// otherwise AddEdge returns an *apperror.Error with CodeInvalidEdge.
// Self-loops and parallel edges are both accepted.
func (b *Builder[T]) AddEdge(from, to T, cost float64) error {
	if cost <= 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return apperror.InvalidEdge(fmt.Sprintf("edge cost %v is not a positive finite number", cost)).
			WithDetails(map[string]any{"from": from, "to": to, "cost": cost})
	}
	b.internID(from)
	b.internID(to)
	b.edges = append(b.edges, Edge[T]{From: from, To: to, Cost: cost})
	return nil
}

// Build finalizes the CSR representation. Edges are bucketed by source
// index and the buckets concatenated in index order, giving each source's
// out-edges cache-linear contiguous storage, the property the hot Dijkstra
// loop depends on.
func (b *Builder[T]) Build() *Graph[T] {
	n := len(b.toExternal)
	counts := make([]int32, n+1)
	for _, e := range b.edges {
		counts[b.toIndex[e.From]]++
	}

	offsets := make([]int32, n+1)
	for i := 0; i < n; i++ {
		offsets[i+1] = offsets[i] + counts[i]
	}

	// cursor[i] tracks the next free slot in node i's bucket; it starts at
	// offsets[i] and is advanced as edges are placed.
	cursor := make([]int32, n)
	copy(cursor, offsets[:n])

	adj := make([]edge, len(b.edges))
	for _, e := range b.edges {
		from := b.toIndex[e.From]
		to := b.toIndex[e.To]
		pos := cursor[from]
		adj[pos] = edge{to: to, cost: e.Cost}
		cursor[from]++
	}

	toExternal := make([]T, n)
	copy(toExternal, b.toExternal)
	toIndex := make(map[T]index, n)
	for k, v := range b.toIndex {
		toIndex[k] = v
	}

	return &Graph[T]{
		toIndex:    toIndex,
		toExternal: toExternal,
		offsets:    offsets,
		adj:        adj,
	}
}

// FromEdges builds a Graph directly from a slice of edge triples, the
// single-call convenience form of Builder for callers who already have all
// edges in hand.
func FromEdges[T comparable](edges []Edge[T]) (*Graph[T], error) {
	b := NewBuilder[T]()
	for _, e := range edges {
		if err := b.AddEdge(e.From, e.To, e.Cost); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
