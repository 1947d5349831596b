package pipeline

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("astscope.pipeline")
	meter  = otel.Meter("astscope.pipeline")
)

var (
	fileDuration  metric.Float64Histogram
	filesAnalyzed metric.Int64Counter
	filesFailed   metric.Int64Counter
	runDuration   metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		if fileDuration, err = meter.Float64Histogram("astscope_file_analysis_duration_seconds",
			metric.WithDescription("Duration of single file analysis"),
			metric.WithUnit("s")); err != nil {
			metricsErr = err
			return
		}
		if filesAnalyzed, err = meter.Int64Counter("astscope_files_analyzed_total",
			metric.WithDescription("Total files analyzed successfully")); err != nil {
			metricsErr = err
			return
		}
		if filesFailed, err = meter.Int64Counter("astscope_files_failed_total",
			metric.WithDescription("Total files excluded after parse failure or timeout")); err != nil {
			metricsErr = err
			return
		}
		if runDuration, err = meter.Float64Histogram("astscope_run_duration_seconds",
			metric.WithDescription("Duration of repository analysis runs"),
			metric.WithUnit("s")); err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordFile(ctx context.Context, language string, duration time.Duration, reason string) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("language", language))
	fileDuration.Record(ctx, duration.Seconds(), attrs)
	if reason == "" {
		filesAnalyzed.Add(ctx, 1, attrs)
		return
	}
	filesFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("language", language),
		attribute.String("reason", reason)))
}

func recordRun(ctx context.Context, duration time.Duration, files, failures int) {
	if initMetrics() != nil {
		return
	}
	runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("partial", failures > 0),
		attribute.Int("files", files)))
}

func startRunSpan(ctx context.Context, runID, root string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Orchestrator.Analyze",
		trace.WithAttributes(
			attribute.String("astscope.run_id", runID),
			attribute.String("astscope.root", root),
		),
	)
}

func startFileSpan(ctx context.Context, path string, size int64) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Orchestrator.analyzeFile",
		trace.WithAttributes(
			attribute.String("astscope.file", path),
			attribute.Int64("astscope.size", size),
		),
	)
}
