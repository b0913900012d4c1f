package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salesetl/internal/config"
)

// InstrumentationName names the tracer and meter of the pipeline.
const InstrumentationName = "salesetl/pipeline"

// Telemetry holds the tracer and meter used by a pipeline run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Metrics        *PipelineMetrics
	System         *SystemMetrics
	Logger         *slog.Logger

	traceOut io.Closer
}

// NoopTelemetry returns telemetry that records nothing.
func NoopTelemetry(logger *slog.Logger) *Telemetry {
	if logger == nil {
		logger = slog.Default()
	}
	meter := metricnoop.NewMeterProvider().Meter(InstrumentationName)
	metrics, _ := CreatePipelineMetrics(meter)
	system, _ := NewSystemMetrics(meter)
	return &Telemetry{
		Tracer:  tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:   meter,
		Metrics: metrics,
		System:  system,
		Logger:  logger,
	}
}

// InitializeTelemetry sets up tracing and metrics from configuration.
// Providers are local to the returned value; global otel state is untouched.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	tel := NoopTelemetry(logger)

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := initializeTracing(cfg, res, tel); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := initializeMetrics(cfg, res, tel); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.InfoContext(ctx, "Telemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return tel, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	name := cfg.ServiceName
	if name == "" {
		name = config.AppName
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, tel *Telemetry) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "file":
		var f *os.File
		f, err = openTraceFile(cfg.TraceFile)
		if err != nil {
			return err
		}
		tel.traceOut = f
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(f))
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	tel.TracerProvider = tp
	tel.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func openTraceFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file %s: %w", path, err)
	}
	return f, nil
}

// initializeMetrics sets up OpenTelemetry metrics backed by a private
// Prometheus registry
func initializeMetrics(cfg config.TelemetryConfig, res *resource.Resource, tel *Telemetry) error {
	switch cfg.MetricExporter {
	case "prometheus":
		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		tel.Registry = registry
		tel.MeterProvider = mp
		tel.Meter = mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))

		metrics, err := CreatePipelineMetrics(tel.Meter)
		if err != nil {
			return fmt.Errorf("failed to create pipeline metrics: %w", err)
		}
		tel.Metrics = metrics

		system, err := NewSystemMetrics(tel.Meter)
		if err != nil {
			return fmt.Errorf("failed to create system metrics: %w", err)
		}
		tel.System = system
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}
	return nil
}

// PipelineMetrics holds the instruments recorded during a run
type PipelineMetrics struct {
	RunsTotal        metric.Int64Counter
	RunDuration      metric.Float64Histogram
	StageDuration    metric.Float64Histogram
	RecordsProcessed metric.Int64Counter
	RecordsRemoved   metric.Int64Counter
	FilesWritten     metric.Int64Counter
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"pipeline_runs_total",
		metric.WithDescription("Total number of pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	recordsProcessed, err := meter.Int64Counter(
		"pipeline_records_processed_total",
		metric.WithDescription("Records leaving each pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	recordsRemoved, err := meter.Int64Counter(
		"pipeline_records_removed_total",
		metric.WithDescription("Records removed by the cleaner, by reason"),
	)
	if err != nil {
		return nil, err
	}

	filesWritten, err := meter.Int64Counter(
		"pipeline_files_written_total",
		metric.WithDescription("Output files written by the sink"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:        runsTotal,
		RunDuration:      runDuration,
		StageDuration:    stageDuration,
		RecordsProcessed: recordsProcessed,
		RecordsRemoved:   recordsRemoved,
		FilesWritten:     filesWritten,
	}, nil
}

// RecordStage records the duration and output size of one stage
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, records int, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	)
	m.StageDuration.Record(ctx, duration.Seconds(), attrs)
	if success {
		m.RecordsProcessed.Add(ctx, int64(records), metric.WithAttributes(attribute.String("stage", stage)))
	}
}

// RecordRemoved records records dropped for reason
func (m *PipelineMetrics) RecordRemoved(ctx context.Context, reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.RecordsRemoved.Add(ctx, int64(count), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordFiles records output files written by the sink
func (m *PipelineMetrics) RecordFiles(ctx context.Context, mode string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.FilesWritten.Add(ctx, int64(count), metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordRun records the outcome of a whole run
func (m *PipelineMetrics) RecordRun(ctx context.Context, mode string, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	)
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
}

// WriteMetricsTextfile writes the current registry contents in the
// Prometheus text format. It is a no-op when metrics are disabled.
func (t *Telemetry) WriteMetricsTextfile(path string) error {
	if t.Registry == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case float64:
			span.SetAttributes(attribute.Float64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}
