// Package aggregate implements the decay-weighted aggregation engine: given
// an all-pairs distance table and a per-node observation value, it computes
// one reduced value per source node over every target the table reaches
// within the decay's mask, weighted by the decay's weight function.
//
// The engine never joins the distance table against the observation map the
// way a SQL join would; instead it indexes observations once by node and
// streams the distance triples exactly once, accumulating per-source state
// as it goes in a single streaming pass.
package aggregate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"netdecay/allpairs"
	"netdecay/apperror"
	"netdecay/decay"
)

// Reducer names the aggregation function applied to each source's weighted
// contributions.
type Reducer string

const (
	ReducerSum    Reducer = "sum"
	ReducerMean   Reducer = "mean"
	ReducerMin    Reducer = "min"
	ReducerMax    Reducer = "max"
	ReducerMedian Reducer = "median"
	ReducerStd    Reducer = "std"
)

var validReducers = map[Reducer]bool{
	ReducerSum: true, ReducerMean: true, ReducerMin: true,
	ReducerMax: true, ReducerMedian: true, ReducerStd: true,
}

// ReducerFunc folds one source's contributions into a scalar. values and
// weights are parallel slices, one entry per surviving contribution; both
// are scratch storage owned by the engine and must not be retained.
type ReducerFunc func(values, weights []float64) float64

// roundScale rounds aggregation outputs to three decimal places, a
// presentation concern preserved for compatibility, not a core invariant.
const roundScale = 1000

func round3(v float64) float64 {
	return math.Round(v*roundScale) / roundScale
}

// contribution is one (weight, value) pair accumulated for a source.
type contribution struct {
	weight float64
	value  float64
}

// Observation is one point-valued reading at a node. A node may carry more
// than one Observation; the engine does not assume observations are a
// one-to-one map from node to value, since real point data (survey
// responses, sensor readings) routinely has several readings at one
// location.
type Observation[T comparable] struct {
	Node  T
	Value float64
}

// Aggregate reduces observations over table's reach from each source, using
// d to decide which targets contribute and at what weight, and reducer to
// fold each source's contributions into a single number. Observations at
// nodes absent from the graph the table was built from are silently
// ignored rather than rejected; real observation data is rarely a perfect
// subset of the network's node set.
//
// Before the join, observations are indexed once by node into a multimap, so
// the single pass over table's triples below does no per-triple searching —
// this is the "index observations by node, iterate distance triples once"
// design the engine follows instead of a relational join.
//
// Every source present in table appears in the result. A source with zero
// masked-in contributions produces NaN for every reducer except sum, which
// produces 0 — an empty sum is legitimately zero, but an empty mean, min,
// max, median, or std has no defined value.
func Aggregate[T comparable](table *allpairs.Table[T], observations []Observation[T], d decay.Decay, reducer Reducer) (map[T]float64, error) {
	return AggregateWith(table, observations, d, reducer, nil)
}

// AggregateWith is Aggregate extended with a named map of caller-supplied
// reducers. A name in custom shadows a built-in of the same name; a reducer
// found in neither is CodeUnknownReducer. A custom reducer receives every
// surviving (value, weight) pair for one source and sees the same
// empty-group convention as the built-ins from the outside — it is simply
// never called for a source with zero contributions, which yields NaN.
func AggregateWith[T comparable](table *allpairs.Table[T], observations []Observation[T], d decay.Decay, reducer Reducer, custom map[Reducer]ReducerFunc) (map[T]float64, error) {
	customFn, isCustom := custom[reducer]
	if !isCustom && !validReducers[reducer] {
		return nil, apperror.UnknownReducer(fmt.Sprintf("reducer %q is not recognized", reducer)).WithField("reducer")
	}

	byNode := make(map[T][]float64, len(observations))
	for _, o := range observations {
		byNode[o.Node] = append(byNode[o.Node], o.Value)
	}

	// Every source present in the table gets an output row, even when all
	// of its contributions end up masked out or unobserved: an empty sum is
	// 0, an empty mean/min/max/median/std is NaN.
	bySource := make(map[T][]contribution)
	for _, tr := range table.Triples {
		if _, ok := bySource[tr.From]; !ok {
			bySource[tr.From] = nil
		}
		vals, ok := byNode[tr.To]
		if !ok {
			continue
		}
		if !d.Mask(tr.Dist) {
			continue
		}
		w := d.Weight(tr.Dist)
		for _, v := range vals {
			bySource[tr.From] = append(bySource[tr.From], contribution{weight: w, value: v})
		}
	}

	out := make(map[T]float64, len(bySource))
	for source, contribs := range bySource {
		if isCustom {
			out[source] = round3(reduceCustom(customFn, contribs))
		} else {
			out[source] = round3(reduce(reducer, contribs))
		}
	}
	return out, nil
}

func reduceCustom(fn ReducerFunc, contribs []contribution) float64 {
	if len(contribs) == 0 {
		return math.NaN()
	}
	values, weights := splitWeighted(contribs)
	return fn(values, weights)
}

func reduce(reducer Reducer, contribs []contribution) float64 {
	if len(contribs) == 0 {
		if reducer == ReducerSum {
			return 0
		}
		return math.NaN()
	}

	switch reducer {
	case ReducerSum:
		var sum float64
		for _, c := range contribs {
			sum += c.weight * c.value
		}
		return sum
	case ReducerMean:
		values, weights := splitWeighted(contribs)
		return stat.Mean(values, weights)
	case ReducerStd:
		// gonum's Variance divides by (Σw_i - 1), the unbiased sample
		// estimator; this reducer is defined as the weighted population
		// standard deviation (divide by Σw_i), so it's accumulated by hand
		// rather than via stat.StdDev/stat.Variance.
		values, weights := splitWeighted(contribs)
		mean := stat.Mean(values, weights)
		var ss, sumWeights float64
		for i, v := range values {
			ss += weights[i] * (v - mean) * (v - mean)
			sumWeights += weights[i]
		}
		if sumWeights == 0 {
			return 0
		}
		return math.Sqrt(ss / sumWeights)
	case ReducerMedian:
		values, weights := splitWeighted(contribs)
		inds := make([]int, len(values))
		floats.Argsort(values, inds)
		sortedWeights := make([]float64, len(weights))
		for i, orig := range inds {
			sortedWeights[i] = weights[orig]
		}
		return stat.Quantile(0.5, stat.Empirical, values, sortedWeights)
	case ReducerMin:
		return floats.Min(rawValues(contribs))
	case ReducerMax:
		return floats.Max(rawValues(contribs))
	default:
		return math.NaN()
	}
}

func splitWeighted(contribs []contribution) (values, weights []float64) {
	values = make([]float64, len(contribs))
	weights = make([]float64, len(contribs))
	for i, c := range contribs {
		values[i] = c.value
		weights[i] = c.weight
	}
	return values, weights
}

func rawValues(contribs []contribution) []float64 {
	values := make([]float64, len(contribs))
	for i, c := range contribs {
		values[i] = c.value
	}
	return values
}
