package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// TaskStatus is the lifecycle state of a job execution.
type TaskStatus string

const (
	StatusRunning   TaskStatus = "RUNNING"
	StatusCompleted TaskStatus = "COMPLETED"
	StatusFailed    TaskStatus = "FAILED"
)

// TaskExecutionHistory records one execution of a job.
type TaskExecutionHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	JobName      string         `gorm:"not null" json:"job_name"`
	JobType      JobType        `gorm:"not null" json:"job_type"`
	Trigger      string         `gorm:"not null" json:"trigger"`
	Status       TaskStatus     `gorm:"not null" json:"status"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	Output       datatypes.JSON `gorm:"type:jsonb" json:"output"`
	ErrorMessage sql.NullString `json:"error_message"`
}

func (TaskExecutionHistory) TableName() string {
	return "task_execution_histories"
}
