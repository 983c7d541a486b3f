package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"
)

// Rebuilder recomputes the baseline set.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*dto.RebuildSummary, error)
}

// BaselineRebuildStrategy runs baseline rebuild jobs, one at a time per process.
type BaselineRebuildStrategy struct {
	rebuilder Rebuilder
	logger    *logger.Logger
	mu        sync.Mutex
}

func NewBaselineRebuildStrategy(rebuilder Rebuilder, log *logger.Logger) *BaselineRebuildStrategy {
	return &BaselineRebuildStrategy{rebuilder: rebuilder, logger: log}
}

func (s *BaselineRebuildStrategy) GetType() entity.JobType {
	return entity.JobTypeBaselineRebuild
}

// Execute rebuilds the baselines and returns the per-instrument outcomes as JSON.
func (s *BaselineRebuildStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	if !s.mu.TryLock() {
		s.logger.WarnContext(ctx, "Baseline rebuild already running, skipping trigger", logger.StringField("job", job.Name))
		return "", dto.ErrRebuildInProgress
	}
	defer s.mu.Unlock()

	summary, rebuildErr := s.rebuilder.Rebuild(ctx)
	if summary == nil {
		return "", rebuildErr
	}

	output, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rebuild summary: %w", err)
	}
	return string(output), rebuildErr
}
