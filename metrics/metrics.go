// Package metrics exposes prometheus.Collector implementations for
// netdecay: a RuntimeCollector carrying goroutine/heap/GC gauges, and a
// NetworkCollector tracking the façade's own hot path — preprocess/aggregate
// duration, distance-table size, worker utilization, and how many targets a
// typical source reaches. Both are nil-safe: a *NetworkCollector that is nil
// simply skips every Observe/Set call, so package network can take one as an
// optional constructor argument with no special-casing at call sites.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RuntimeCollector reports goroutine count and heap/GC statistics, so a
// caller wiring netdecay into a larger service gets process health metrics
// in the same namespace/subsystem shape as the network metrics.
type RuntimeCollector struct {
	goroutines *prometheus.Desc
	memAlloc   *prometheus.Desc
	memSys     *prometheus.Desc
	gcRuns     *prometheus.Desc
}

// NewRuntimeCollector creates a RuntimeCollector under the given namespace
// and subsystem.
func NewRuntimeCollector(namespace, subsystem string) *RuntimeCollector {
	return &RuntimeCollector{
		goroutines: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "runtime_goroutines"),
			"Number of goroutines", nil, nil,
		),
		memAlloc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "runtime_memory_alloc_bytes"),
			"Bytes allocated and still in use", nil, nil,
		),
		memSys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "runtime_memory_sys_bytes"),
			"Bytes obtained from the operating system", nil, nil,
		),
		gcRuns: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "runtime_gc_runs_total"),
			"Total number of completed GC cycles", nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *RuntimeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.goroutines
	ch <- c.memAlloc
	ch <- c.memSys
	ch <- c.gcRuns
}

// Collect implements prometheus.Collector.
func (c *RuntimeCollector) Collect(ch chan<- prometheus.Metric) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	ch <- prometheus.MustNewConstMetric(c.goroutines, prometheus.GaugeValue, float64(runtime.NumGoroutine()))
	ch <- prometheus.MustNewConstMetric(c.memAlloc, prometheus.GaugeValue, float64(stats.Alloc))
	ch <- prometheus.MustNewConstMetric(c.memSys, prometheus.GaugeValue, float64(stats.Sys))
	ch <- prometheus.MustNewConstMetric(c.gcRuns, prometheus.CounterValue, float64(stats.NumGC))
}

// NetworkCollector instruments package network's Preprocess and Aggregate:
// how long each takes, how large the cached distance table ends up, how
// busy the all-pairs worker pool was, and how many targets a source
// typically reaches within cutoff.
type NetworkCollector struct {
	preprocessDuration prometheus.Histogram
	aggregateDuration  prometheus.Histogram
	tableTriples       prometheus.Gauge
	workerUtilization  prometheus.Gauge
	reachablePerSource prometheus.Histogram
}

// NewNetworkCollector creates and registers a NetworkCollector's metrics
// against reg. reg may be prometheus.DefaultRegisterer, or nil to skip
// registration (callers that only want the *NetworkCollector values, e.g.
// for tests, without touching any global registry).
func NewNetworkCollector(namespace, subsystem string, reg prometheus.Registerer) *NetworkCollector {
	c := &NetworkCollector{
		preprocessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "preprocess_duration_seconds",
			Help:    "Duration of Network.Preprocess calls",
			Buckets: prometheus.DefBuckets,
		}),
		aggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "aggregate_duration_seconds",
			Help:    "Duration of Network.Aggregate calls",
			Buckets: prometheus.DefBuckets,
		}),
		tableTriples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "distance_table_triples",
			Help: "Number of (from, to, dist) triples in the cached distance table",
		}),
		workerUtilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "allpairs_worker_utilization",
			Help: "Fraction of all-pairs worker pool slots in use, as last reported via SetWorkerUtilization",
		}),
		reachablePerSource: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "reachable_targets_per_source",
			Help:    "Distribution of reachable target count per source node",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}),
	}
	if reg != nil {
		reg.MustRegister(c.preprocessDuration, c.aggregateDuration, c.tableTriples, c.workerUtilization, c.reachablePerSource)
	}
	return c
}

// ObservePreprocess records how long a Preprocess call took and how many
// triples its distance table ended up holding.
func (c *NetworkCollector) ObservePreprocess(d time.Duration, triples int) {
	if c == nil {
		return
	}
	c.preprocessDuration.Observe(d.Seconds())
	c.tableTriples.Set(float64(triples))
}

// ObserveAggregate records how long an Aggregate call took.
func (c *NetworkCollector) ObserveAggregate(d time.Duration) {
	if c == nil {
		return
	}
	c.aggregateDuration.Observe(d.Seconds())
}

// ObserveReachable records, for one source, how many targets its row in the
// distance table held.
func (c *NetworkCollector) ObserveReachable(n int) {
	if c == nil {
		return
	}
	c.reachablePerSource.Observe(float64(n))
}

// SetWorkerUtilization records the fraction of worker-pool slots in use.
func (c *NetworkCollector) SetWorkerUtilization(frac float64) {
	if c == nil {
		return
	}
	c.workerUtilization.Set(frac)
}
