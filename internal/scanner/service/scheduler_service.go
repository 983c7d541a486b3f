package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"

	"github.com/robfig/cron/v3"
)

const (
	JobNameScan            = "scan"
	JobNameBaselineRebuild = "baseline_rebuild"

	TriggerCron = "cron"
	TriggerAPI  = "api"
	TriggerCLI  = "cli"
)

// SchedulerService triggers the periodic jobs from their cron specs.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessJobs(ctx context.Context)
	Wait()
}

type scheduledJob struct {
	job      entity.Job
	schedule cron.Schedule
	next     time.Time
}

type schedulerService struct {
	executor        ExecutorService
	logger          *logger.Logger
	pollingInterval time.Duration
	jobs            []*scheduledJob
	now             func() time.Time
	wg              sync.WaitGroup
}

// ScanJob describes a scan triggered from the given source.
func ScanJob(cfg *config.Config, trigger string) entity.Job {
	return entity.Job{
		Name:           JobNameScan,
		Type:           entity.JobTypeScan,
		TimeoutSeconds: int(cfg.Scanner.Timeout / time.Second),
		Trigger:        trigger,
	}
}

// BaselineRebuildJob describes a baseline rebuild triggered from the given source.
func BaselineRebuildJob(cfg *config.Config, trigger string) entity.Job {
	return entity.Job{
		Name:           JobNameBaselineRebuild,
		Type:           entity.JobTypeBaselineRebuild,
		TimeoutSeconds: int(cfg.Baseline.Timeout / time.Second),
		Trigger:        trigger,
	}
}

// NewSchedulerService parses the configured cron specs in exchange time. Empty specs are ignored.
func NewSchedulerService(executor ExecutorService, log *logger.Logger, pollingInterval time.Duration, cfg *config.Config) (SchedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	s := &schedulerService{
		executor:        executor,
		logger:          log,
		pollingInterval: pollingInterval,
		now:             utils.TimeNowTaipei,
	}

	specs := []struct {
		spec string
		job  entity.Job
	}{
		{spec: cfg.Schedule.ScanCron, job: ScanJob(cfg, TriggerCron)},
		{spec: cfg.Schedule.RebuildCron, job: BaselineRebuildJob(cfg, TriggerCron)},
	}
	now := s.now()
	for _, sp := range specs {
		if sp.spec == "" {
			continue
		}
		schedule, err := parser.Parse(sp.spec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cron expression %q for %s: %w", sp.spec, sp.job.Name, err)
		}
		s.jobs = append(s.jobs, &scheduledJob{job: sp.job, schedule: schedule, next: schedule.Next(now)})
	}
	return s, nil
}

// Start begins the periodic job processing loop.
func (s *schedulerService) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.logger.Info("Job scheduled", logger.StringField("job", j.job.Name), logger.Field("next_execution", j.next))
	}

	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessJobs(ctx)
		}
	}
}

// ProcessJobs launches every job that is due and advances its next execution.
// Overlapping runs are rejected by the strategies themselves.
func (s *schedulerService) ProcessJobs(ctx context.Context) {
	now := s.now()
	for _, j := range s.jobs {
		if now.Before(j.next) {
			continue
		}
		job := j.job
		j.next = j.schedule.Next(now)

		s.wg.Add(1)
		utils.GoSafe(func() {
			defer s.wg.Done()
			if _, err := s.executor.Execute(ctx, &job); err != nil {
				s.logger.Warn("Scheduled job did not complete", logger.StringField("job", job.Name), logger.ErrorField(err))
			}
		})
		s.logger.Info("Scheduled job launched", logger.StringField("job", job.Name), logger.Field("next_execution", j.next))
	}
}

// Wait blocks until every launched job has returned.
func (s *schedulerService) Wait() {
	s.wg.Wait()
}
