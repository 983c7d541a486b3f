package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	mu   sync.Mutex
	jobs []entity.Job
}

func (f *fakeExecutor) Execute(ctx context.Context, job *entity.Job) (*entity.TaskExecutionHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, *job)
	return &entity.TaskExecutionHistory{JobName: job.Name}, nil
}

func (f *fakeExecutor) History(ctx context.Context, jobType entity.JobType, limit int) ([]entity.TaskExecutionHistory, error) {
	return nil, nil
}

func TestSchedulerLaunchesDueJobs(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule.ScanCron = "*/30 9-13 * * 1-5"
	cfg.Schedule.RebuildCron = "0 18 * * 1-5"

	exec := &fakeExecutor{}
	svc, err := NewSchedulerService(exec, logger.NewNop(), time.Second, cfg)
	require.NoError(t, err)
	s := svc.(*schedulerService)

	// Monday 2024-06-03 09:10 Taipei.
	loc := time.FixedZone("Asia/Taipei", 8*3600)
	clock := time.Date(2024, 6, 3, 9, 10, 0, 0, loc)
	for _, j := range s.jobs {
		j.next = j.schedule.Next(clock)
	}
	s.now = func() time.Time { return clock }

	s.ProcessJobs(context.Background())
	s.Wait()
	assert.Empty(t, exec.jobs)

	clock = time.Date(2024, 6, 3, 9, 30, 0, 0, loc)
	s.ProcessJobs(context.Background())
	s.Wait()
	require.Len(t, exec.jobs, 1)
	assert.Equal(t, JobNameScan, exec.jobs[0].Name)
	assert.Equal(t, TriggerCron, exec.jobs[0].Trigger)
	assert.Equal(t, int(cfg.Scanner.Timeout/time.Second), exec.jobs[0].TimeoutSeconds)

	// Same tick again does not relaunch.
	s.ProcessJobs(context.Background())
	s.Wait()
	assert.Len(t, exec.jobs, 1)

	clock = time.Date(2024, 6, 3, 18, 0, 0, 0, loc)
	s.ProcessJobs(context.Background())
	s.Wait()
	require.Len(t, exec.jobs, 3)
	names := []string{exec.jobs[1].Name, exec.jobs[2].Name}
	assert.ElementsMatch(t, []string{JobNameScan, JobNameBaselineRebuild}, names)
}

func TestSchedulerRejectsInvalidCron(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule.ScanCron = "not a cron"

	_, err := NewSchedulerService(&fakeExecutor{}, logger.NewNop(), time.Second, cfg)
	assert.Error(t, err)
}

func TestSchedulerIgnoresEmptySpecs(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule.ScanCron = ""
	cfg.Schedule.RebuildCron = ""

	svc, err := NewSchedulerService(&fakeExecutor{}, logger.NewNop(), time.Second, cfg)
	require.NoError(t, err)
	assert.Empty(t, svc.(*schedulerService).jobs)
}
