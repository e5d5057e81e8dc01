// Package logger wraps log/slog with a JSON or text handler and optional
// lumberjack-rotated file output. The rest of the module logs through the
// process-wide Log installed here unless a caller supplies its own.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"netdecay/config"
)

// Log is the package-level logger, set by Init/InitWithConfig. It defaults
// to a plain stdout JSON logger at info level so callers that never call
// Init still get usable output.
var Log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init initializes Log at the given level with JSON output to stdout.
func Init(level string) {
	InitWithConfig(config.LogConfig{Level: level, Format: "json", Output: "stdout"})
}

// InitWithConfig initializes Log from a full config.LogConfig, choosing the
// handler format and writer (stdout, stderr, or a lumberjack-rotated file).
func InitWithConfig(cfg config.LogConfig) {
	var lvl slog.Level
	switch cfg.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var writer io.Writer
	switch cfg.Output {
	case "stderr":
		writer = os.Stderr
	case "file":
		path := cfg.FilePath
		if path == "" {
			path = "logs/netdecay.log"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			writer = os.Stdout
		} else {
			writer = &lumberjack.Logger{
				Filename:   path,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
		}
	default:
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl == slog.LevelDebug}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	Log = slog.New(handler)
}

// WithCorrelationID tags a logger with a correlation id, for distinguishing
// repeated Preprocess/Aggregate calls against the same cached network.
func WithCorrelationID(id string) *slog.Logger {
	return Log.With("correlation_id", id)
}

// WithComponent tags a logger with the originating package name.
func WithComponent(component string) *slog.Logger {
	return Log.With("component", component)
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }
