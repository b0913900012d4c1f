package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "salesetl/internal/errors"
)

// Stage names, in execution order
const (
	StageExtract = "extract"
	StageClean   = "clean"
	StageEnrich  = "enrich"
	StageQuality = "quality"
	StageReport  = "report"
	StageLoad    = "load"
)

// Stages lists every stage in execution order
var Stages = []string{StageExtract, StageClean, StageEnrich, StageQuality, StageReport, StageLoad}

// runStage executes fn as the named stage of r. It opens a span, records
// duration and output size, and converts both errors and panics into a
// *StageError carrying the elapsed run time.
func runStage[T any](ctx context.Context, r *run, stage string, fn func(context.Context) (T, error), size func(T) int) (out T, err error) {
	ctx, span := r.tel.Tracer.Start(ctx, "pipeline.stage."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", r.id),
			attribute.String("stage.name", stage),
		),
	)
	defer span.End()

	r.logger.InfoContext(ctx, "Stage started", slog.String("stage", stage))
	start := time.Now()

	defer func() {
		if v := recover(); v != nil {
			err = &apperrors.PanicError{Value: v}
		}

		duration := time.Since(start)
		if err != nil {
			var zero T
			out = zero
			err = apperrors.NewStageError(stage, r.elapsed(), err)

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.tel.Metrics.RecordStage(ctx, stage, duration, 0, false)
			r.logger.ErrorContext(ctx, "Stage failed",
				slog.String("stage", stage),
				slog.Duration("duration", duration),
				slog.Duration("elapsed", r.elapsed()),
				slog.String("error", err.Error()))
			return
		}

		records := size(out)
		span.SetAttributes(attribute.Int("stage.records", records))
		span.SetStatus(codes.Ok, "")
		r.tel.Metrics.RecordStage(ctx, stage, duration, records, true)
		mem := r.tel.System.Record(ctx, stage)
		r.logger.InfoContext(ctx, "Stage completed",
			slog.String("stage", stage),
			slog.Int("records", records),
			slog.Duration("duration", duration),
			slog.String("heap_alloc", fmt.Sprintf("%.1f MB", float64(mem.HeapAllocBytes)/(1024*1024))))
	}()

	return fn(ctx)
}
