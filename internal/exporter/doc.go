// Package exporter writes pipeline outputs to disk.
//
// CSVWriter writes delimited text with an optional UTF-8 BOM for Excel.
// ExcelWriter writes one workbook sheet per table using excelize. Sink
// combines the two into the fixed set of files a run produces:
//
//	sales_complete.csv                  enriched sales table
//	sales_reports.xlsx                  Summary, Categories, Monthly, Top Products, Top Customers
//	sales_complete_<timestamp>.csv      versioned copy of the sales table
//
// Writers produce a StagedFile: the content sits under a temporary name in
// the output directory until it is committed. Sink.Stage collects the run's
// files into a Batch and Batch.Commit renames them all, so a run that fails
// part way leaves the previous run's outputs as they were.
//
// Example usage:
//
//	sink := exporter.NewSink("data/processed", false, logger)
//	batch, err := sink.Stage(ctx, salesTable, dataprocessing.ReportSheets(report), ts)
//	if err != nil {
//		return err
//	}
//	if _, err := batch.Add("pipeline_stats_"+ts+".json", stats); err != nil {
//		batch.Discard(ctx)
//		return err
//	}
//	files, err := batch.Commit(ctx)
package exporter
