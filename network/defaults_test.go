package network

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdecay/config"
)

func TestDefaultDecay_KnownKinds(t *testing.T) {
	d, err := DefaultDecay(config.NetworkConfig{DefaultDecayKind: "linear", DefaultCutoff: 10})
	require.NoError(t, err)
	assert.Equal(t, "linear", d.KindName())
	assert.Equal(t, 10.0, d.Cutoff())
}

func TestDefaultDecay_UnknownKindErrors(t *testing.T) {
	_, err := DefaultDecay(config.NetworkConfig{DefaultDecayKind: "bogus"})
	assert.Error(t, err)
}

func TestWorkerConcurrencyOption_AppliesToNetwork(t *testing.T) {
	opt := WorkerConcurrencyOption[string](config.NetworkConfig{WorkerConcurrency: 2})
	net := New(scenarioGraph(t), opt)
	assert.NotNil(t, net.pool)
}

func TestMetricsOption_DisabledIsNoOp(t *testing.T) {
	opt := MetricsOption[string](config.MetricsConfig{Enabled: false}, prometheus.NewRegistry())
	net := New(scenarioGraph(t), opt)
	assert.Nil(t, net.collector)
}

func TestMetricsOption_EnabledAttachesCollector(t *testing.T) {
	opt := MetricsOption[string](config.MetricsConfig{Enabled: true, Namespace: "netdecay", Subsystem: "network"}, prometheus.NewRegistry())
	net := New(scenarioGraph(t), opt)
	assert.NotNil(t, net.collector)
}

func TestTracerOption_DisabledLeavesDefaultTracer(t *testing.T) {
	withOpt := New(scenarioGraph(t), TracerOption[string](config.TracingConfig{Enabled: false}))
	withoutOpt := New(scenarioGraph(t))
	assert.Equal(t, withoutOpt.tracer, withOpt.tracer)
}

func TestTracerOption_EnabledAttachesTracer(t *testing.T) {
	opt := TracerOption[string](config.TracingConfig{Enabled: true})
	net := New(scenarioGraph(t), opt)
	assert.NotNil(t, net.tracer)
}
