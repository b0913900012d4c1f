// Package dataprocessing holds the transform stage of the sales pipeline.
//
// # Components
//
//   - Cleaner: drops duplicate and invalid sales lines and parses dates
//   - Enricher: derives calendar and business attributes per record
//   - Auditor: read-only data quality report over any table
//   - ReportBuilder: the five grouped summaries written to the workbook
//
// Every component returns new values and never mutates its input.
//
// # Usage
//
//	records, stats := dataprocessing.NewCleaner(logger).Clean(ctx, lines)
//	enriched := dataprocessing.NewEnricher(logger).Enrich(ctx, records)
//	report := dataprocessing.NewReportBuilder(logger, dataprocessing.DefaultReportConfig()).Build(ctx, enriched)
//	sheets := dataprocessing.ReportSheets(report)
//
// Grouping columns with no value are reported under "Unknown".
package dataprocessing
