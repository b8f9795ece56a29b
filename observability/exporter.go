package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type ExporterKind string

const (
	ExporterNone       ExporterKind = "none"
	ExporterStdout     ExporterKind = "stdout"
	ExporterPrometheus ExporterKind = "prometheus"
)

func ParseExporterKind(kind string) (ExporterKind, error) {
	switch k := ExporterKind(strings.ToLower(strings.TrimSpace(kind))); k {
	case "", ExporterNone:
		return ExporterNone, nil
	case ExporterStdout, ExporterPrometheus:
		return k, nil
	default:
	}
	return ExporterNone, fmt.Errorf("unknown metrics exporter %q", kind)
}

type ShutdownFunc func(ctx context.Context) error

func nopShutdown(context.Context) error { return nil }

// NewMetricsExporter installs the global meter provider of kind.
// The none kind keeps the otel default no-op provider.
func NewMetricsExporter(kind ExporterKind, interval time.Duration, w io.Writer) (ShutdownFunc, error) {
	switch kind {
	case ExporterStdout:
		opts := []stdoutmetric.Option{stdoutmetric.WithPrettyPrint()}
		if w != nil {
			opts = append(opts, stdoutmetric.WithWriter(w))
		}
		return newConsoleMetricsExporter(interval, interval, opts...)
	case ExporterPrometheus:
		return newPrometheusMetricsExporter()
	case ExporterNone, "":
		return nopShutdown, nil
	default:
	}
	return nil, fmt.Errorf("unknown metrics exporter %q", kind)
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownFunc, error) {
	if interval <= 0 {
		interval = 10 * time.Second
		timeout = interval
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter() (ShutdownFunc, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
