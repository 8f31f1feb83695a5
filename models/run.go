package models

import "time"

// PipelineRun records one end-to-end invocation of the pipeline for
// bookkeeping in the destination database.
type PipelineRun struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       string
	StepsRun     int
	StepsSkipped int
	StepsFailed  int
}
