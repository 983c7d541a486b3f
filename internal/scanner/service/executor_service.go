package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/repository"
	"stock-sniper/internal/scanner/strategy"
	"stock-sniper/pkg/logger"

	"gorm.io/datatypes"
)

// ExecutorService runs jobs through their strategies and records each execution.
type ExecutorService interface {
	Execute(ctx context.Context, job *entity.Job) (*entity.TaskExecutionHistory, error)
	History(ctx context.Context, jobType entity.JobType, limit int) ([]entity.TaskExecutionHistory, error)
}

// NewExecutorService creates a new ExecutorService. historyRepo may be nil.
func NewExecutorService(
	historyRepo repository.TaskExecutionHistoryRepository,
	log *logger.Logger,
	strategies []strategy.JobExecutionStrategy,
) ExecutorService {
	strategyMap := make(map[entity.JobType]strategy.JobExecutionStrategy)
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}

	return &executorService{
		historyRepo:        historyRepo,
		logger:             log,
		executorStrategies: strategyMap,
	}
}

type executorService struct {
	historyRepo        repository.TaskExecutionHistoryRepository
	logger             *logger.Logger
	executorStrategies map[entity.JobType]strategy.JobExecutionStrategy
}

// Execute runs job synchronously under its timeout. The returned history is
// populated even when the job fails.
func (s *executorService) Execute(ctx context.Context, job *entity.Job) (*entity.TaskExecutionHistory, error) {
	history := &entity.TaskExecutionHistory{
		JobName:   job.Name,
		JobType:   job.Type,
		Trigger:   job.Trigger,
		Status:    entity.StatusRunning,
		StartedAt: time.Now(),
	}
	if s.historyRepo != nil {
		if err := s.historyRepo.Create(ctx, history); err != nil {
			s.logger.Error("Failed to create task history", logger.ErrorField(err), logger.StringField("job", job.Name))
		}
	}

	execStrategy, ok := s.executorStrategies[job.Type]
	if !ok {
		err := fmt.Errorf("no executor strategy found for job type: %s", job.Type)
		s.finish(ctx, history, "", err)
		return history, err
	}

	execCtx := ctx
	if job.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, time.Duration(job.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	s.logger.Info("Processing job", logger.StringField("job", job.Name), logger.StringField("trigger", job.Trigger))
	output, err := execStrategy.Execute(execCtx, job)
	s.finish(ctx, history, output, err)
	return history, err
}

func (s *executorService) finish(ctx context.Context, history *entity.TaskExecutionHistory, output string, err error) {
	if err != nil {
		s.logger.Error("Job execution failed", logger.ErrorField(err), logger.StringField("job", history.JobName), logger.IntField("history_id", int(history.ID)))
		history.Status = entity.StatusFailed
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	} else {
		s.logger.Info("Job executed successfully", logger.StringField("job", history.JobName), logger.IntField("history_id", int(history.ID)))
		history.Status = entity.StatusCompleted
	}
	if output != "" {
		history.Output = datatypes.JSON(output)
	}
	history.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}

	if s.historyRepo == nil {
		return
	}
	// The job context may already be done; the record still has to land.
	if err := s.historyRepo.Update(context.WithoutCancel(ctx), history); err != nil {
		s.logger.Error("Failed to update task history", logger.ErrorField(err), logger.IntField("history_id", int(history.ID)))
	}
}

func (s *executorService) History(ctx context.Context, jobType entity.JobType, limit int) ([]entity.TaskExecutionHistory, error) {
	if s.historyRepo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.historyRepo.FindRecent(ctx, jobType, limit)
}
