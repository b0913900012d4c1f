// Command salesetl runs the Northwind sales ETL pipeline.
//
// Usage:
//
//	salesetl         process every sales line into data/processed
//	salesetl -test   process the first sample of lines into data/processed/test
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesetl/internal/config"
	"salesetl/internal/infrastructure"
	"salesetl/internal/pipeline"
	"salesetl/pkg/contracts/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run reports the summary to stdout and failures to stderr
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	testMode := flags.Bool("test", false, "quick test: process only the first sample of sales lines")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("Telemetry disabled", slog.String("error", err.Error()))
		tel = infrastructure.NoopTelemetry(logger)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	p := pipeline.New(cfg, tel, logger)
	result, err := p.Run(context.Background(), pipeline.Options{TestMode: *testMode})
	if err != nil {
		fmt.Fprintf(stderr, "PIPELINE FAILED\nError: %v\nDuration before failure: %.2fs\n", err, result.DurationSeconds)
		return 1
	}

	printSummary(stdout, result)
	return 0
}

// loadConfig loads configuration and resolves its relative paths against
// the workspace base directory
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	paths, err := config.GetPaths()
	if err != nil {
		return nil, err
	}
	cfg.Source.Path = paths.Resolve(cfg.Source.Path)
	cfg.Output.Dir = paths.Resolve(cfg.Output.Dir)
	cfg.Output.TestDir = paths.Resolve(cfg.Output.TestDir)
	cfg.Telemetry.MetricsFile = paths.Resolve(cfg.MetricsPath())
	if cfg.Logging.Output != "console" {
		cfg.Logging.FilePath = paths.Resolve(cfg.Logging.FilePath)
	}
	return cfg, nil
}

func printSummary(w io.Writer, r domain.RunResult) {
	p := message.NewPrinter(language.English)

	if r.Mode == domain.RunModeTest {
		p.Fprintf(w, "QUICK TEST COMPLETED\n")
	} else {
		p.Fprintf(w, "PIPELINE COMPLETED SUCCESSFULLY\n")
	}
	p.Fprintf(w, "  Started:           %s\n", r.StartTime.Format(time.DateTime))
	p.Fprintf(w, "  Ended:             %s\n", r.EndTime.Format(time.DateTime))
	p.Fprintf(w, "  Duration:          %s\n", r.DurationFormatted)
	p.Fprintf(w, "  Records processed: %d\n", r.CleanRecords)
	p.Fprintf(w, "  Records removed:   %d\n", r.RecordsRemoved)
	p.Fprintf(w, "  Features created:  %d\n", r.FeaturesCreated)
	p.Fprintf(w, "Output files in %s:\n", r.OutputDir)
	for _, f := range r.OutputFiles {
		p.Fprintf(w, "  %s (%.2f MB)\n", f.Name, float64(f.SizeBytes)/(1024*1024))
	}
}
