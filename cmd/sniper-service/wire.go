package main

import (
	"context"
	"fmt"

	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/repository"
	"stock-sniper/internal/scanner/service"
	"stock-sniper/internal/scanner/strategy"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/postgres"
	"stock-sniper/pkg/redis"
	"stock-sniper/pkg/telegram"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg         *config.Config
	log         *logger.Logger
	store       *service.BaselineStore
	baselineSvc service.BaselineService
	scanSvc     service.ScanService
	executor    service.ExecutorService
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp wires the pipeline. When requireInfra is false, Postgres and Redis
// failures degrade to an in-memory run instead of aborting.
func newApp(cfg *config.Config, appLogger *logger.Logger, requireInfra bool) (*app, error) {
	a := &app{cfg: cfg, log: appLogger, store: service.NewBaselineStore()}

	var (
		baselineRepo repository.BaselineRepository
		reportRepo   repository.ReportRepository
		historyRepo  repository.TaskExecutionHistoryRepository
		cacheRepo    repository.ReportCacheRepository
		notifier     service.ReportNotifier
	)

	db, err := postgres.NewDB(cfg.Database.Postgres())
	switch {
	case err == nil:
		if sqlDB, err := db.DB.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		baselineRepo = repository.NewBaselineRepository(db.DB)
		reportRepo = repository.NewReportRepository(db.DB)
		historyRepo = repository.NewTaskExecutionHistoryRepository(db.DB)
	case requireInfra:
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	default:
		appLogger.Warn("Database unavailable, results will not be persisted", logger.ErrorField(err))
	}

	redisClient, err := redis.NewClient(cfg.Redis.Client())
	switch {
	case err == nil:
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		cacheRepo = repository.NewReportCacheRepository(redisClient, cfg.Redis.StreamMaxLen)
	case requireInfra:
		a.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	default:
		appLogger.Warn("Redis unavailable, reports will not be cached", logger.ErrorField(err))
	}

	if cfg.Telegram.Enabled() {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Telegram unavailable, digests disabled", logger.ErrorField(err))
		} else {
			notifier = telegram.NewReportNotifier(client, appLogger, cfg.Telegram.MaxItems)
		}
	}

	tiers, err := cfg.EnrichmentTiers()
	if err != nil {
		a.Close()
		return nil, err
	}

	quoteRepo := repository.NewQuoteRepository(cfg, appLogger)
	historySrc := repository.NewHistoryRepository(cfg, appLogger)
	listingSrc := repository.NewListingRepository(cfg, appLogger)
	headlineSrc := repository.NewHeadlineRepository(cfg, appLogger)

	a.baselineSvc = service.NewBaselineService(cfg, appLogger, a.store, historySrc, listingSrc, baselineRepo, cacheRepo)

	poller := service.NewPoller(quoteRepo, appLogger, service.PollerConfig{
		BatchSize:    cfg.Scanner.BatchSize,
		DelayMin:     cfg.Scanner.InterBatchDelayMin,
		DelayMax:     cfg.Scanner.InterBatchDelayMax,
		Cooldown:     cfg.Scanner.Cooldown,
		FailureDelay: cfg.Scanner.FailureDelay,
	})
	classifier := service.NewClassifier(cfg.Scanner.LegacyMode)
	enricher := service.NewEnricher(headlineSrc, appLogger, tiers, cfg.Enrichment.PositiveKeywords, cfg.Enrichment.NegativeKeywords, cfg.Enrichment.HeadlineLimit)
	a.scanSvc = service.NewScanService(cfg, appLogger, a.store, poller, classifier, enricher, reportRepo, cacheRepo, notifier)

	strategies := []strategy.JobExecutionStrategy{
		strategy.NewScanStrategy(a.scanSvc, appLogger),
		strategy.NewBaselineRebuildStrategy(a.baselineSvc, appLogger),
	}
	a.executor = service.NewExecutorService(historyRepo, appLogger, strategies)
	return a, nil
}

// loadBaselines fills the store from Postgres, rebuilding when nothing is stored.
func (a *app) loadBaselines(ctx context.Context, rebuildIfEmpty bool) error {
	n, err := a.baselineSvc.Load(ctx)
	if err != nil {
		a.log.Warn("Failed to load stored baselines", logger.ErrorField(err))
	}
	if n > 0 {
		a.log.Info("Baselines loaded", logger.IntField("instruments", n))
		return nil
	}
	if !rebuildIfEmpty {
		a.log.Warn("No stored baselines, scans will fail until a rebuild completes")
		return nil
	}
	a.log.Info("No stored baselines, rebuilding")
	job := service.BaselineRebuildJob(a.cfg, service.TriggerCLI)
	_, err = a.executor.Execute(ctx, &job)
	return err
}
