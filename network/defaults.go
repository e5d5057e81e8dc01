package network

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"netdecay/apperror"
	"netdecay/config"
	"netdecay/decay"
	"netdecay/metrics"
	"netdecay/telemetry"
)

// DefaultDecay builds the decay.Decay named by cfg.Network, the same
// defaults a caller would otherwise have to switch on by hand every time it
// reads a NetworkConfig back from package config. Exponential decay uses
// cfg.Network.DefaultDecayK as k.
func DefaultDecay(cfg config.NetworkConfig) (decay.Decay, error) {
	switch cfg.DefaultDecayKind {
	case "no_decay":
		return decay.NoDecay(cfg.DefaultCutoff), nil
	case "linear":
		return decay.Linear(cfg.DefaultCutoff), nil
	case "exponential":
		return decay.Exponential(cfg.DefaultCutoff, cfg.DefaultDecayK), nil
	default:
		return decay.Decay{}, apperror.UnknownDecayKind(fmt.Sprintf("unknown default decay kind %q", cfg.DefaultDecayKind)).WithField("default_decay_kind")
	}
}

// WorkerConcurrencyOption builds a WithWorkerConcurrency option from a
// NetworkConfig, mirroring how config.NetworkConfig.WorkerConcurrency (0 =
// GOMAXPROCS) feeds allpairs.NewPool.
func WorkerConcurrencyOption[T comparable](cfg config.NetworkConfig) Option[T] {
	return WithWorkerConcurrency[T](cfg.WorkerConcurrency)
}

// MetricsOption builds a WithMetrics option from a MetricsConfig, returning
// a no-op option (nil collector) when metrics are disabled so a caller can
// wire this unconditionally regardless of the config.Enabled flag.
func MetricsOption[T comparable](cfg config.MetricsConfig, reg prometheus.Registerer) Option[T] {
	if !cfg.Enabled {
		return func(*Network[T]) {}
	}
	return WithMetrics[T](metrics.NewNetworkCollector(cfg.Namespace, cfg.Subsystem, reg))
}

// TracerOption builds a WithTracer option from a TracingConfig. When tracing
// is disabled it leaves Network's default tracer in place: telemetry.Tracer()
// with no TracerProvider registered is already a no-op, so there is no
// separate disabled state to wire.
func TracerOption[T comparable](cfg config.TracingConfig) Option[T] {
	if !cfg.Enabled {
		return func(*Network[T]) {}
	}
	return WithTracer[T](telemetry.Tracer())
}
