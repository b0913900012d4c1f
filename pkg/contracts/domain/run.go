package domain

import "time"

// RunStatus is the outcome of a pipeline run
type RunStatus string

const (
	RunStatusSuccess RunStatus = "Success"
	RunStatusFailed  RunStatus = "Failed"
)

// RunMode selects the full data set or the quick sample
type RunMode string

const (
	RunModeFull RunMode = "full"
	RunModeTest RunMode = "test"
)

// CleaningStats reports how many records each cleaning step removed
type CleaningStats struct {
	Input               int `json:"input"`
	Duplicates          int `json:"duplicates"`
	NonPositiveTotal    int `json:"non_positive_total"`
	NonPositiveQuantity int `json:"non_positive_quantity"`
	MissingIdentifiers  int `json:"missing_identifiers"`
	InvalidOrderDate    int `json:"invalid_order_date"`
	Output              int `json:"output"`
}

// Removed returns the total number of records dropped
func (s CleaningStats) Removed() int {
	return s.Duplicates + s.NonPositiveTotal + s.NonPositiveQuantity + s.MissingIdentifiers + s.InvalidOrderDate
}

// OutputFile is one artifact written by the sink
type OutputFile struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// RunResult is the immutable record of one pipeline run. On failure
// FailedStage and Error are set and the counts cover the stages that ran.
type RunResult struct {
	RunID             string         `json:"run_id"`
	Mode              RunMode        `json:"mode"`
	Status            RunStatus      `json:"status"`
	StartTime         time.Time      `json:"start_time"`
	EndTime           time.Time      `json:"end_time"`
	DurationSeconds   float64        `json:"duration_seconds"`
	DurationFormatted string         `json:"duration_formatted"`
	RawRecords        int            `json:"raw_records"`
	RawColumns        int            `json:"raw_columns"`
	CleanRecords      int            `json:"clean_records"`
	FinalColumns      int            `json:"final_columns"`
	RecordsRemoved    int            `json:"records_removed"`
	FeaturesCreated   int            `json:"features_created"`
	Cleaning          CleaningStats  `json:"cleaning"`
	Quality           *QualityReport `json:"quality,omitempty"`
	OutputDir         string         `json:"output_dir"`
	OutputFiles       []OutputFile   `json:"output_files,omitempty"`
	FailedStage       string         `json:"failed_stage,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// Succeeded reports whether the run completed
func (r RunResult) Succeeded() bool {
	return r.Status == RunStatusSuccess
}
