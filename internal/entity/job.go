package entity

import "encoding/json"

// JobType identifies which strategy runs a job.
type JobType string

const (
	JobTypeScan            JobType = "SCAN"
	JobTypeBaselineRebuild JobType = "BASELINE_REBUILD"
)

// Job is a unit of work dispatched to a strategy, either by cron or by the API.
type Job struct {
	Name           string          `json:"name"`
	Type           JobType         `json:"type"`
	Payload        json.RawMessage `json:"payload"`
	TimeoutSeconds int             `json:"timeout_seconds"`
	Trigger        string          `json:"trigger"`
}
