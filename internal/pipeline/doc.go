// Package pipeline runs the sales ETL as a linear sequence of stages:
// extract, clean, enrich, quality, report and load.
//
// Each stage returns its own value and the orchestrator assembles them into
// a domain.RunResult. A failing or panicking stage stops the run and is
// reported as an *errors.StageError naming the stage.
package pipeline
