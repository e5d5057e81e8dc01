package network

import (
	"github.com/paulmach/orb"

	"netdecay/apperror"
	"netdecay/geoindex"
)

// NearestNodeFinder is the external geospatial-joiner collaborator:
// given a query point, return the index (into the slice it was
// built from) of the nearest indexed point. package geoindex's *Index is
// the concrete implementation NearestNodes builds by default; callers may
// supply their own (e.g. backed by a database spatial index) via
// WithNearestNodeFinder.
type NearestNodeFinder interface {
	Nearest(p orb.Point) (int, bool)
}

// buildIndex lazily constructs the default R-tree-backed NearestNodeFinder
// over n's coordinates, together with the parallel slice mapping an index
// result back to an external node id. Both are built exactly once and
// cached, since they must stay paired — rebuilding just the id slice on a
// later call while reusing the cached index would desync the two (map
// iteration order is not stable across calls).
func (n *Network[T]) buildIndex() ([]T, error) {
	if n.geoIndexer != nil {
		return n.geoIndexIDs, nil
	}
	if n.coords == nil {
		return nil, apperror.MissingCoordinates("NearestNodes requires WithCoordinates; no coordinates were attached to this Network")
	}
	order := make([]T, 0, len(n.coords))
	pts := make([]orb.Point, 0, len(n.coords))
	for id, pt := range n.coords {
		order = append(order, id)
		pts = append(pts, orb.Point{pt.X, pt.Y})
	}
	n.geoIndexer = geoindex.Build(pts)
	n.geoIndexIDs = order
	return order, nil
}

// NearestNodes delegates to the geospatial nearest-node joiner
// to map each query point to the id of its closest graph node.
// Coordinates must have been attached via WithCoordinates. A query point
// that cannot be resolved (only possible when the Network carries no
// coordinates at all) maps to the zero value of T.
func (n *Network[T]) NearestNodes(points []orb.Point) ([]T, error) {
	order, err := n.buildIndex()
	if err != nil {
		return nil, err
	}

	out := make([]T, len(points))
	for i, p := range points {
		idx, ok := n.geoIndexer.Nearest(p)
		if !ok {
			continue
		}
		out[i] = order[idx]
	}
	return out, nil
}
