package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"salesetl/internal/config"
	apperrors "salesetl/internal/errors"
	"salesetl/pkg/contracts/domain"
)

// FormatDuration renders d as whole minutes and seconds, e.g. "2m 5s"
func FormatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// complete marks result successful at end
func complete(result domain.RunResult, end time.Time) domain.RunResult {
	result.Status = domain.RunStatusSuccess
	result.EndTime = end
	result.DurationSeconds = roundSeconds(end.Sub(result.StartTime))
	result.DurationFormatted = FormatDuration(end.Sub(result.StartTime))
	return result
}

func failedStage(err error) string {
	var stageErr *apperrors.StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

// RunStatsFileName is the name of the statistics file of a run
func RunStatsFileName(timestamp string) string {
	return config.RunStatsPrefix + timestamp + ".json"
}

// EncodeRunStats renders result as indented JSON
func EncodeRunStats(result domain.RunResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, apperrors.NewSinkError("failed to encode run statistics", err)
	}
	return data, nil
}
