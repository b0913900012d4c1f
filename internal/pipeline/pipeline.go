package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"salesetl/internal/config"
	"salesetl/internal/dataprocessing"
	"salesetl/internal/exporter"
	"salesetl/internal/infrastructure"
	"salesetl/internal/source"
	"salesetl/pkg/contracts/domain"
)

// SalesTableName names the enriched table
const SalesTableName = "sales"

// SalesSource supplies the raw sales lines
type SalesSource interface {
	ExtractSalesData(ctx context.Context, limit int) ([]domain.SalesLine, error)
	Close() error
}

// SourceOpener connects to the configured source
type SourceOpener func(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (SalesSource, error)

// OpenSource opens a database source
func OpenSource(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (SalesSource, error) {
	src, err := source.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Options selects the run mode
type Options struct {
	// TestMode processes only the first SampleSize lines and writes to the
	// test output directory
	TestMode bool
}

// Pipeline runs the ETL stages against one configuration
type Pipeline struct {
	cfg    *config.Config
	tel    *infrastructure.Telemetry
	logger *slog.Logger
	open   SourceOpener
	now    func() time.Time
}

// New creates a pipeline. A nil telemetry records nothing.
func New(cfg *config.Config, tel *infrastructure.Telemetry, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if tel == nil {
		tel = infrastructure.NoopTelemetry(logger)
	}
	return &Pipeline{
		cfg:    cfg,
		tel:    tel,
		logger: logger.With(slog.String("component", "pipeline")),
		open:   OpenSource,
		now:    time.Now,
	}
}

// run carries the per-run state shared by the stages
type run struct {
	*Pipeline
	id     string
	mode   domain.RunMode
	start  time.Time
	outDir string
}

func (r *run) elapsed() time.Duration {
	return r.now().Sub(r.start)
}

type cleaned struct {
	records []domain.SalesRecord
	stats   domain.CleaningStats
}

type enriched struct {
	records []domain.EnrichedRecord
	table   *domain.Table
}

type rendered struct {
	report domain.SalesReport
	sheets []*domain.Table
}

// Run executes every stage in order. On success the result has status
// Success and a run statistics file is written next to the outputs. On
// failure the returned error is a *errors.StageError and the result carries
// the failed stage, the error text and the counts of the stages that ran.
// A run ID already present in ctx is kept.
func (p *Pipeline) Run(ctx context.Context, opts Options) (domain.RunResult, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	r := &run{
		Pipeline: p,
		id:       infrastructure.GetRunID(ctx),
		mode:     domain.RunModeFull,
		start:    p.now(),
		outDir:   p.cfg.OutputDir(opts.TestMode),
	}
	limit := 0
	if opts.TestMode {
		r.mode = domain.RunModeTest
		limit = p.cfg.Output.SampleSize
	}

	ctx, span := p.tel.Tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", r.id),
			attribute.String("run.mode", string(r.mode)),
		),
	)
	defer span.End()

	result := domain.RunResult{
		RunID:     r.id,
		Mode:      r.mode,
		StartTime: r.start,
		OutputDir: r.outDir,
	}

	p.logger.InfoContext(ctx, "Pipeline started",
		slog.String("mode", string(r.mode)),
		slog.String("database", p.cfg.SourceLocator()),
		slog.String("output_dir", r.outDir))

	fail := func(err error) (domain.RunResult, error) {
		result = r.finish(ctx, result, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	// Extract
	lines, err := runStage(ctx, r, StageExtract, func(ctx context.Context) ([]domain.SalesLine, error) {
		return r.extract(ctx, limit)
	}, lenOf[domain.SalesLine])
	if err != nil {
		return fail(err)
	}
	result.RawRecords = len(lines)
	result.RawColumns = len(domain.SalesLineColumns)

	// Clean
	clean, err := runStage(ctx, r, StageClean, func(ctx context.Context) (cleaned, error) {
		records, stats := dataprocessing.NewCleaner(p.logger).Clean(ctx, lines)
		return cleaned{records: records, stats: stats}, nil
	}, func(c cleaned) int { return len(c.records) })
	if err != nil {
		return fail(err)
	}
	result.Cleaning = clean.stats
	r.recordRemoved(ctx, clean.stats)

	// Enrich
	enrich, err := runStage(ctx, r, StageEnrich, func(ctx context.Context) (enriched, error) {
		records := dataprocessing.NewEnricher(p.logger).Enrich(ctx, clean.records)
		return enriched{records: records, table: domain.EnrichedTable(SalesTableName, records)}, nil
	}, func(e enriched) int { return len(e.records) })
	if err != nil {
		return fail(err)
	}
	result.CleanRecords = len(enrich.records)
	result.FinalColumns = len(enrich.table.Columns)
	result.RecordsRemoved = result.RawRecords - result.CleanRecords
	result.FeaturesCreated = result.FinalColumns - result.RawColumns

	p.logger.InfoContext(ctx, "Transformation completed",
		slog.Int("clean_records", result.CleanRecords),
		slog.Int("records_removed", result.RecordsRemoved),
		slog.Int("features_created", result.FeaturesCreated),
		slog.Int("final_columns", result.FinalColumns))

	// Quality
	quality, err := runStage(ctx, r, StageQuality, func(ctx context.Context) (domain.QualityReport, error) {
		auditor := dataprocessing.NewAuditor(p.logger, dataprocessing.AuditorConfig{TopCategories: p.cfg.Report.TopCategories})
		return auditor.Audit(ctx, enrich.table), nil
	}, func(q domain.QualityReport) int { return q.Records })
	if err != nil {
		return fail(err)
	}
	result.Quality = &quality

	// Report
	report, err := runStage(ctx, r, StageReport, func(ctx context.Context) (rendered, error) {
		builder := dataprocessing.NewReportBuilder(p.logger, dataprocessing.ReportConfig{TopN: p.cfg.Report.TopN})
		rep := builder.Build(ctx, enrich.records)
		return rendered{report: rep, sheets: dataprocessing.ReportSheets(rep)}, nil
	}, func(x rendered) int { return len(x.sheets) })
	if err != nil {
		return fail(err)
	}

	// Load
	_, err = runStage(ctx, r, StageLoad, func(ctx context.Context) ([]domain.OutputFile, error) {
		return r.load(ctx, enrich.table, report.sheets, &result)
	}, lenOf[domain.OutputFile])
	if err != nil {
		return fail(err)
	}

	p.tel.Metrics.RecordFiles(ctx, string(r.mode), len(result.OutputFiles))
	p.tel.Metrics.RecordRun(ctx, string(r.mode), result.EndTime.Sub(result.StartTime), true)
	r.writeMetrics(ctx)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"run.raw_records":   result.RawRecords,
		"run.clean_records": result.CleanRecords,
		"run.output_files":  len(result.OutputFiles),
	})
	span.SetStatus(codes.Ok, "")

	p.logger.InfoContext(ctx, "Pipeline completed successfully",
		slog.String("duration", result.DurationFormatted),
		slog.Int("records_processed", result.CleanRecords),
		slog.Int("features_created", result.FeaturesCreated),
		slog.String("output_dir", r.outDir))

	return result, nil
}

// extract reads the sales lines and closes the source
func (r *run) extract(ctx context.Context, limit int) ([]domain.SalesLine, error) {
	src, err := r.open(ctx, r.cfg.Source, r.logger)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	lines, err := src.ExtractSalesData(ctx, limit)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		r.logger.InfoContext(ctx, "Using sample",
			slog.Int("sample_size", limit),
			slog.Int("records", len(lines)))
	}
	return lines, nil
}

// load stages the outputs and the run statistics, then moves them into
// place together. A failure before the move leaves the output directory
// as the previous run left it.
func (r *run) load(ctx context.Context, sales *domain.Table, sheets []*domain.Table, result *domain.RunResult) ([]domain.OutputFile, error) {
	sink := exporter.NewSink(r.outDir, r.cfg.Output.CSVBOM, r.logger)
	timestamp := r.now().Format(r.cfg.Output.TimestampFormat)

	batch, err := sink.Stage(ctx, sales, sheets, timestamp)
	if err != nil {
		return nil, err
	}

	// the statistics list the data outputs, not themselves
	final := *result
	final.OutputFiles = batch.Files()
	final = complete(final, r.now())

	data, err := EncodeRunStats(final)
	if err != nil {
		batch.Discard(ctx)
		return nil, err
	}
	if _, err := batch.Add(RunStatsFileName(timestamp), data); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	files, err := batch.Commit(ctx)
	if err != nil {
		return nil, err
	}

	final.OutputFiles = files
	*result = final
	return files, nil
}

// finish completes a failed run
func (r *run) finish(ctx context.Context, result domain.RunResult, err error) domain.RunResult {
	end := r.now()
	result.Status = domain.RunStatusFailed
	result.Error = err.Error()
	result.FailedStage = failedStage(err)
	result.EndTime = end
	result.DurationSeconds = roundSeconds(end.Sub(result.StartTime))
	result.DurationFormatted = FormatDuration(end.Sub(result.StartTime))

	r.tel.Metrics.RecordRun(ctx, string(r.mode), end.Sub(result.StartTime), false)
	r.writeMetrics(ctx)

	r.logger.ErrorContext(ctx, "Pipeline failed",
		slog.String("stage", result.FailedStage),
		slog.String("error", result.Error),
		slog.Float64("duration_seconds", result.DurationSeconds))
	return result
}

func (r *run) recordRemoved(ctx context.Context, s domain.CleaningStats) {
	m := r.tel.Metrics
	m.RecordRemoved(ctx, "duplicate", s.Duplicates)
	m.RecordRemoved(ctx, "non_positive_total", s.NonPositiveTotal)
	m.RecordRemoved(ctx, "non_positive_quantity", s.NonPositiveQuantity)
	m.RecordRemoved(ctx, "missing_identifier", s.MissingIdentifiers)
	m.RecordRemoved(ctx, "invalid_order_date", s.InvalidOrderDate)
}

// writeMetrics exports the metric registry to the metrics textfile
func (r *run) writeMetrics(ctx context.Context) {
	path := r.cfg.MetricsPath()
	if err := r.tel.WriteMetricsTextfile(path); err != nil {
		r.logger.WarnContext(ctx, "Failed to write metrics textfile",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

func lenOf[T any](s []T) int {
	return len(s)
}
