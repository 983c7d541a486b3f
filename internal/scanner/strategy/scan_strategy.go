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

// Scanner runs one scan pass.
type Scanner interface {
	Scan(ctx context.Context) (*entity.Report, *dto.ScanSummary, error)
}

// ScanStrategy runs scan jobs, one at a time per process.
type ScanStrategy struct {
	scanner Scanner
	logger  *logger.Logger
	mu      sync.Mutex
}

// NewScanStrategy creates a new instance of ScanStrategy.
func NewScanStrategy(scanner Scanner, log *logger.Logger) *ScanStrategy {
	return &ScanStrategy{scanner: scanner, logger: log}
}

// GetType returns the job type this strategy handles.
func (s *ScanStrategy) GetType() entity.JobType {
	return entity.JobTypeScan
}

// Execute runs a scan and returns its summary as JSON. A scan that is already
// running makes this call fail fast with dto.ErrScanInProgress.
func (s *ScanStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	if !s.mu.TryLock() {
		s.logger.WarnContext(ctx, "Scan already running, skipping trigger", logger.StringField("job", job.Name))
		return "", dto.ErrScanInProgress
	}
	defer s.mu.Unlock()

	_, summary, scanErr := s.scanner.Scan(ctx)
	if summary == nil {
		return "", scanErr
	}

	output, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scan summary: %w", err)
	}
	return string(output), scanErr
}
