package config

// Application constants
const (
	AppName    = "salesetl"
	AppVersion = "1.0.0"

	// File Paths (relative to the working directory)
	DefaultDataDir       = "data"
	DefaultRawDir        = "data/raw"
	DefaultDatabasePath  = "data/raw/northwind.db"
	DefaultOutputDir     = "data/processed"
	DefaultTestOutputDir = "data/processed/test"
	DefaultLogsDir       = "logs"
	DefaultLogFile       = "logs/pipeline.log"

	// Northwind SQLite distribution used by setupdb
	NorthwindDownloadURL = "https://raw.githubusercontent.com/jpwhite3/northwind-SQLite3/main/dist/northwind.db"

	// Run settings
	DefaultSampleSize    = 10000
	DefaultTopN          = 20
	DefaultTopCategories = 5

	// TimestampLayout is the suffix format of timestamped output files (YYYYMMDD_HHMMSS)
	TimestampLayout = "20060102_150405"
)

// Output file names
const (
	SalesCSVFile        = "sales_complete.csv"
	SalesCSVPrefix      = "sales_complete_"
	ReportWorkbookFile  = "sales_reports.xlsx"
	RunStatsPrefix      = "pipeline_stats_"
	MetricsTextfileName = "pipeline_metrics.prom"
)
