package aggregate

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdecay/allpairs"
	"netdecay/apperror"
	"netdecay/decay"
	"netdecay/graph"
)

func obs(values map[string]float64) []Observation[string] {
	out := make([]Observation[string], 0, len(values))
	for node, v := range values {
		out = append(out, Observation[string]{Node: node, Value: v})
	}
	return out
}

func buildScenarioGraph(t *testing.T) *graph.Graph[string] {
	t.Helper()
	b := graph.NewBuilder[string]()
	und := [][3]any{
		{"a", "b", 0.6}, {"a", "c", 0.2}, {"c", "d", 0.1},
		{"c", "e", 0.7}, {"c", "f", 0.9}, {"a", "d", 0.3},
	}
	for _, e := range und {
		from, to, cost := e[0].(string), e[1].(string), e[2].(float64)
		require.NoError(t, b.AddEdge(from, to, cost))
		require.NoError(t, b.AddEdge(to, from, cost))
	}
	return b.Build()
}

func buildScenarioTable(t *testing.T, cutoff float64) *allpairs.Table[string] {
	t.Helper()
	g := buildScenarioGraph(t)
	table, err := allpairs.Run(context.Background(), g, cutoff, allpairs.NewPool(4))
	require.NoError(t, err)
	return table
}

func TestAggregate_LinearDecaySum(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	observations := obs(map[string]float64{"b": 1, "d": 2, "c": 3})

	out, err := Aggregate(table, observations, decay.Linear(0.5), ReducerSum)
	require.NoError(t, err)

	assert.InDelta(t, 2.6, out["a"], 1e-9)
	assert.InDelta(t, 1.0, out["b"], 1e-9)
	assert.InDelta(t, 4.6, out["c"], 1e-9)
	assert.InDelta(t, 4.4, out["d"], 1e-9)
	assert.InDelta(t, 0.0, out["e"], 1e-9)
	assert.InDelta(t, 0.0, out["f"], 1e-9)
}

func TestAggregate_NoDecaySum(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	observations := obs(map[string]float64{"b": 1, "d": 2, "c": 3})

	out, err := Aggregate(table, observations, decay.NoDecay(0.5), ReducerSum)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, out["a"], 1e-9)
	assert.InDelta(t, 1.0, out["b"], 1e-9)
	assert.InDelta(t, 5.0, out["c"], 1e-9)
	assert.InDelta(t, 5.0, out["d"], 1e-9)
	assert.InDelta(t, 0.0, out["e"], 1e-9)
	assert.InDelta(t, 0.0, out["f"], 1e-9)
}

func TestAggregate_CutoffExclusion(t *testing.T) {
	table := buildScenarioTable(t, 0.25)
	observations := obs(map[string]float64{"d": 2})

	sumOut, err := Aggregate(table, observations, decay.NoDecay(10), ReducerSum)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sumOut["a"], 1e-9)

	meanOut, err := Aggregate(table, observations, decay.NoDecay(10), ReducerMean)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(meanOut["a"]))
}

func TestAggregate_WeightedMean(t *testing.T) {
	b := graph.NewBuilder[string]()
	require.NoError(t, b.AddEdge("s", "n1", 1))
	require.NoError(t, b.AddEdge("s", "n2", 1))
	g := b.Build()

	table, err := allpairs.Run(context.Background(), g, 1500, allpairs.NewPool(2))
	require.NoError(t, err)

	observations := []Observation[string]{
		{Node: "n1", Value: 100},
		{Node: "n1", Value: 200},
		{Node: "n2", Value: 300},
	}
	out, err := Aggregate(table, observations, decay.NoDecay(1500), ReducerMean)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, out["s"], 1e-9)
}

func TestAggregate_UnknownReducer(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	_, err := Aggregate(table, obs(map[string]float64{"b": 1}), decay.NoDecay(1), Reducer("bogus"))
	require.Error(t, err)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeUnknownReducer, appErr.Code)
}

func TestAggregate_UnknownObservationNodeSilentlyDropped(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	observations := obs(map[string]float64{"b": 1, "nonexistent": 999})

	out, err := Aggregate(table, observations, decay.NoDecay(1.2), ReducerSum)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out["a"], 1e-9)
}

// The median is the first value (ascending) whose cumulative weight reaches
// half the total; std is the weighted population standard deviation.
func TestAggregate_MedianAndStd(t *testing.T) {
	b := graph.NewBuilder[string]()
	require.NoError(t, b.AddEdge("s", "a", 0.1))
	require.NoError(t, b.AddEdge("s", "b", 0.2))
	g := b.Build()

	table, err := allpairs.Run(context.Background(), g, 1, allpairs.NewPool(2))
	require.NoError(t, err)

	observations := []Observation[string]{
		{Node: "a", Value: 2},
		{Node: "b", Value: 4},
	}

	medianOut, err := Aggregate(table, observations, decay.NoDecay(1), ReducerMedian)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, medianOut["s"], 1e-9)

	stdOut, err := Aggregate(table, observations, decay.NoDecay(1), ReducerStd)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, stdOut["s"], 1e-9)
}

// Scaling every observation value by a constant must scale every sum and
// mean output by the same constant.
func TestAggregate_SumAndMeanLinearInValues(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	base := obs(map[string]float64{"b": 1, "d": 2, "c": 3})
	scaled := make([]Observation[string], len(base))
	for i, o := range base {
		scaled[i] = Observation[string]{Node: o.Node, Value: o.Value * 10}
	}

	for _, reducer := range []Reducer{ReducerSum, ReducerMean} {
		baseOut, err := Aggregate(table, base, decay.Linear(0.5), reducer)
		require.NoError(t, err)
		scaledOut, err := Aggregate(table, scaled, decay.Linear(0.5), reducer)
		require.NoError(t, err)

		for source, v := range baseOut {
			if math.IsNaN(v) {
				assert.True(t, math.IsNaN(scaledOut[source]))
				continue
			}
			// the final 3-decimal rounding happens after scaling, so the
			// two sides can differ by up to ~0.005 * scale
			assert.InDelta(t, v*10, scaledOut[source], 1e-2, "reducer %s, source %s", reducer, source)
		}
	}
}

func TestAggregateWith_CustomReducer(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	observations := obs(map[string]float64{"b": 1, "d": 2, "c": 3})

	custom := map[Reducer]ReducerFunc{
		"count": func(values, weights []float64) float64 { return float64(len(values)) },
	}
	out, err := AggregateWith(table, observations, decay.NoDecay(1.2), "count", custom)
	require.NoError(t, err)

	// a reaches b (0.6), c (0.2), and d (0.3), all inside the mask.
	assert.InDelta(t, 3.0, out["a"], 1e-9)

	// an empty group is never handed to the custom reducer; it yields NaN
	// like every non-sum built-in.
	narrow := buildScenarioTable(t, 0.25)
	out, err = AggregateWith(narrow, obs(map[string]float64{"d": 2}), decay.NoDecay(10), "count", custom)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out["a"]))
}

func TestAggregateWith_CustomShadowsBuiltin(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	observations := obs(map[string]float64{"b": 1, "d": 2, "c": 3})

	custom := map[Reducer]ReducerFunc{
		ReducerSum: func(values, weights []float64) float64 { return -1 },
	}
	out, err := AggregateWith(table, observations, decay.NoDecay(0.5), ReducerSum, custom)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, out["a"], 1e-9)
}

func TestAggregate_MinMaxIgnoreWeights(t *testing.T) {
	table := buildScenarioTable(t, 1.2)
	observations := obs(map[string]float64{"b": 1, "d": 2, "c": 3})

	minOut, err := Aggregate(table, observations, decay.Linear(0.5), ReducerMin)
	require.NoError(t, err)
	maxOut, err := Aggregate(table, observations, decay.Linear(0.5), ReducerMax)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, minOut["a"], 1e-9)
	assert.InDelta(t, 3.0, maxOut["a"], 1e-9)
}
