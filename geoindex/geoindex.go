// Package geoindex is the concrete (but swappable) implementation of the
// geospatial nearest-node joiner: given a graph's node coordinates in a
// projected CRS, answer nearest-node queries for an arbitrary point set.
// It builds an R-tree (github.com/tidwall/rtree) over
// github.com/paulmach/orb points.
package geoindex

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

// Index answers nearest-point queries over a fixed set of indexed points,
// identified by the position they were given to Build in.
type Index struct {
	tree   *rtree.RTreeG[int]
	points []orb.Point
}

// Build constructs an Index over points. The int each query returns is the
// index into points (and so into whatever parallel slice of node ids the
// caller built points from).
func Build(points []orb.Point) *Index {
	tr := &rtree.RTreeG[int]{}
	for i, p := range points {
		bound := [2]float64{p[0], p[1]}
		tr.Insert(bound, bound, i)
	}
	return &Index{tree: tr, points: points}
}

// initialRadius and maxDoublings bound the expanding-box search Nearest
// performs: starting from a small box around the query point, repeatedly
// doubling its half-width until a point is found whose true (non-box)
// distance is no larger than the search radius, which is the point where
// we can be sure no closer point lies just outside the box.
const (
	initialRadius = 1.0
	maxDoublings  = 40
)

// Nearest returns the index (into the slice Build was called with) of the
// indexed point closest to p, and false if the index is empty.
func (ix *Index) Nearest(p orb.Point) (int, bool) {
	if len(ix.points) == 0 {
		return 0, false
	}

	radius := initialRadius
	for i := 0; i < maxDoublings; i++ {
		best := -1
		bestDist := math.Inf(1)
		min := [2]float64{p[0] - radius, p[1] - radius}
		max := [2]float64{p[0] + radius, p[1] + radius}
		ix.tree.Search(min, max, func(_, _ [2]float64, data int) bool {
			d := planar.Distance(p, ix.points[data])
			if d < bestDist {
				bestDist = d
				best = data
			}
			return true
		})
		if best >= 0 && bestDist <= radius {
			return best, true
		}
		radius *= 2
	}
	return -1, false
}

// NearestBatch resolves Nearest for every point in qs, in order. A query
// point that finds no candidate (only possible when the index is empty)
// maps to -1.
func (ix *Index) NearestBatch(qs []orb.Point) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		if idx, ok := ix.Nearest(q); ok {
			out[i] = idx
		} else {
			out[i] = -1
		}
	}
	return out
}
