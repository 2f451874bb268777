// Package observability builds the logger, metrics registry, and tracer shared by
// every module.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls the observability stack.
type Config struct {
	ServiceName    string
	Environment    string
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// Observability bundles the providers handed to modules at construction time.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Tracer   trace.Tracer
	cfg      Config
}

// Init builds the providers. Logs go to w, or stderr when w is nil.
func Init(cfg Config, w io.Writer) (*Observability, error) {
	if w == nil {
		w = os.Stderr
	}
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat, w)
	if err != nil {
		return nil, err
	}
	logger = logger.With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	if cfg.MetricsEnabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Observability{
		Logger:   logger,
		Registry: registry,
		Tracer:   otel.Tracer(cfg.ServiceName),
		cfg:      cfg,
	}, nil
}

// NewNoop returns providers that discard everything. Used by tests and one-shot CLI commands.
func NewNoop() *Observability {
	return &Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
		Tracer:   noop.NewTracerProvider().Tracer("noop"),
	}
}

// MetricsEnabled reports whether operation metrics should be exported.
func (o *Observability) MetricsEnabled() bool { return o.cfg.MetricsEnabled }

// OperationMetrics returns the metrics recorder for subsystem, or a no-op when
// metrics are disabled.
func (o *Observability) OperationMetrics(subsystem string) (OperationMetrics, error) {
	if !o.cfg.MetricsEnabled {
		return NoOpMetrics{}, nil
	}
	return NewPrometheusOperationMetrics(o.Registry, subsystem)
}

// NewLogger creates a slog logger. format is "text" (colored console output) or "json".
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.RFC3339,
		})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
