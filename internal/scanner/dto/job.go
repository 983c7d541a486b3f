package dto

import (
	"encoding/json"
	"time"

	"stock-sniper/internal/entity"
)

// JobHistoryResponse is the viewer form of a task execution record.
type JobHistoryResponse struct {
	ID          uint            `json:"id"`
	JobName     string          `json:"job_name"`
	JobType     string          `json:"job_type"`
	Trigger     string          `json:"trigger"`
	Status      string          `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Output      json.RawMessage `json:"output,omitempty" swaggertype:"object"`
	Error       string          `json:"error,omitempty"`
}

// NewJobHistoryResponse flattens the nullable columns of h.
func NewJobHistoryResponse(h entity.TaskExecutionHistory) JobHistoryResponse {
	resp := JobHistoryResponse{
		ID:        h.ID,
		JobName:   h.JobName,
		JobType:   string(h.JobType),
		Trigger:   h.Trigger,
		Status:    string(h.Status),
		StartedAt: h.StartedAt,
		Error:     h.ErrorMessage.String,
	}
	if h.CompletedAt.Valid {
		completed := h.CompletedAt.Time
		resp.CompletedAt = &completed
	}
	if len(h.Output) > 0 {
		resp.Output = json.RawMessage(h.Output)
	}
	return resp
}
