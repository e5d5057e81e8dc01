// Package config loads netdecay's runtime configuration: cutoff/decay
// defaults, all-pairs worker concurrency, and the ambient logging/metrics/
// tracing/report knobs. There is no transport, database, cache, or
// rate-limit section here — the module is a library (no gRPC/HTTP server,
// no persistence beyond the node/edge tables in package store), so no
// such sections exist to configure.
package config

import (
	"fmt"
)

// Config is netdecay's top-level configuration tree.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Network NetworkConfig `koanf:"network"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
	Report  ReportConfig  `koanf:"report"`
}

// AppConfig carries general application identity.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// NetworkConfig holds the defaults applied when a caller constructs a
// Network without overriding them explicitly: the preprocess cutoff, the
// default decay shape, and the all-pairs worker concurrency.
type NetworkConfig struct {
	DefaultCutoff     float64 `koanf:"default_cutoff"`
	DefaultDecayKind  string  `koanf:"default_decay_kind"` // no_decay, linear, exponential
	DefaultDecayK     float64 `koanf:"default_decay_k"`    // exponential decay rate
	WorkerConcurrency int     `koanf:"worker_concurrency"` // 0 = GOMAXPROCS
}

// LogConfig controls the process-wide logger installed by logger.InitWithConfig.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"`     // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig controls whether prometheus collectors are registered; the
// module never opens a listener itself (no HTTP server in scope), so Port
// and Path describe where a caller-owned mux should expose them.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig controls whether Network wraps Preprocess/Aggregate in
// spans. netdecay never dials an OTLP collector itself; a caller wires its
// own otel/sdk TracerProvider.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// ReportConfig holds defaults for package report's xlsx export.
type ReportConfig struct {
	DefaultSheetName string `koanf:"default_sheet_name"`
	ValueColumnName  string `koanf:"value_column_name"`
	IncludeNodeName  bool   `koanf:"include_node_name"`
}

// Validate checks required fields and normalizes a handful of values with
// safe fallbacks.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}
	if c.Network.DefaultCutoff <= 0 {
		errs = append(errs, fmt.Sprintf("network.default_cutoff must be positive, got %v", c.Network.DefaultCutoff))
	}
	switch c.Network.DefaultDecayKind {
	case "no_decay", "linear", "exponential":
	default:
		errs = append(errs, fmt.Sprintf("network.default_decay_kind %q is not one of no_decay, linear, exponential", c.Network.DefaultDecayKind))
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %v", errs)
	}
	return nil
}
