package common

const (
	RedisKeyLatestReport        = "sniper:report:latest"
	RedisStreamReportCompleted  = "sniper.report.completed"
	RedisKeyBaselineGeneratedAt = "sniper:baseline:generated_at"
)

// Per-unit statuses recorded in job outputs.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)
