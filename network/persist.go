package network

import (
	"context"
	"fmt"

	"netdecay/apperror"
	"netdecay/graph"
	"netdecay/store"
)

// Write persists the graph's node and edge tables to nodePath/edgePath via
// package store (node table: id, geometry; edge table: from, to, cost).
// Write requires WithCoordinates to have been set: geometry is a
// required node column, not optional, so a Network built without
// coordinates cannot be written. The cached distance table is never
// persisted; Read recomputes it.
func (n *Network[T]) Write(nodePath, edgePath string) error {
	if n.coords == nil {
		return apperror.MissingCoordinates("Write requires WithCoordinates; no coordinates were attached to this Network")
	}

	nodes := make([]store.Node, 0, n.g.NNodes())
	for i := 0; i < n.g.NNodes(); i++ {
		id := n.g.ExternalID(i)
		pt, ok := n.coords[id]
		if !ok {
			return apperror.MissingCoordinates(fmt.Sprintf("Write: node %v has no coordinate in WithCoordinates", id))
		}
		nodes = append(nodes, store.Node{ID: fmt.Sprint(id), X: pt.X, Y: pt.Y})
	}
	if err := store.WriteNodes(nodePath, nodes); err != nil {
		return err
	}

	triples := n.g.Edges()
	edges := make([]store.Edge, len(triples))
	for i, e := range triples {
		edges[i] = store.Edge{From: fmt.Sprint(e.From), To: fmt.Sprint(e.To), Cost: e.Cost}
	}
	return store.WriteEdges(edgePath, edges)
}

// Read loads a node/edge table pair written by Write (or any producer
// emitting the same columns), builds a graph over external ids parsed
// from the table's string ids via parseID, and re-runs Preprocess at
// cutoff — the distance-table cache is never persisted, only recomputed.
func Read[T comparable](ctx context.Context, nodePath, edgePath string, cutoff float64, parseID func(string) (T, error), opts ...Option[T]) (*Network[T], error) {
	nodes, err := store.ReadNodes(nodePath)
	if err != nil {
		return nil, err
	}
	edges, err := store.ReadEdges(edgePath)
	if err != nil {
		return nil, err
	}

	b := graph.NewBuilder[T]()
	coords := make(map[T]Point, len(nodes))
	for _, rec := range nodes {
		id, err := parseID(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("network: Read: parsing node id %q: %w", rec.ID, err)
		}
		b.AddNode(id)
		coords[id] = Point{X: rec.X, Y: rec.Y}
	}
	for _, rec := range edges {
		from, err := parseID(rec.From)
		if err != nil {
			return nil, fmt.Errorf("network: Read: parsing edge.from %q: %w", rec.From, err)
		}
		to, err := parseID(rec.To)
		if err != nil {
			return nil, fmt.Errorf("network: Read: parsing edge.to %q: %w", rec.To, err)
		}
		if err := b.AddEdge(from, to, rec.Cost); err != nil {
			return nil, err
		}
	}

	net := New(b.Build(), append(opts, WithCoordinates[T](coords))...)
	if err := net.Preprocess(ctx, cutoff); err != nil {
		return nil, err
	}
	return net, nil
}

// ReadStrings is Read specialized to string node ids, the common case
// (and the only one that round-trips without a caller-supplied parser,
// since the persisted table stores every id as a string).
func ReadStrings(ctx context.Context, nodePath, edgePath string, cutoff float64, opts ...Option[string]) (*Network[string], error) {
	return Read(ctx, nodePath, edgePath, cutoff, func(s string) (string, error) { return s, nil }, opts...)
}
