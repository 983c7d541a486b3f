package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/metrics"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/internal/scanner/repository"
	"stock-sniper/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReportNotifier delivers a finished report to an operator channel.
type ReportNotifier interface {
	NotifyReport(ctx context.Context, report entity.Report, summary dto.ScanSummary) error
}

// ScanService runs scan passes and serves their reports.
type ScanService interface {
	Scan(ctx context.Context) (*entity.Report, *dto.ScanSummary, error)
	LatestReport(ctx context.Context) (*entity.Report, error)
	ReportByScanID(ctx context.Context, scanID string) (*entity.Report, error)
	ListReports(ctx context.Context, limit int) ([]entity.ScanReport, error)
}

type scanService struct {
	cfg        *config.Config
	log        *logger.Logger
	store      *BaselineStore
	poller     *Poller
	classifier *Classifier
	enricher   *Enricher
	reportRepo repository.ReportRepository
	cacheRepo  repository.ReportCacheRepository
	notifier   ReportNotifier
	now        func() time.Time
}

// NewScanService wires a scan pipeline. reportRepo, cacheRepo and notifier may be nil.
func NewScanService(
	cfg *config.Config,
	log *logger.Logger,
	store *BaselineStore,
	poller *Poller,
	classifier *Classifier,
	enricher *Enricher,
	reportRepo repository.ReportRepository,
	cacheRepo repository.ReportCacheRepository,
	notifier ReportNotifier,
) ScanService {
	return &scanService{
		cfg:        cfg,
		log:        log,
		store:      store,
		poller:     poller,
		classifier: classifier,
		enricher:   enricher,
		reportRepo: reportRepo,
		cacheRepo:  cacheRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Scan polls the whole universe once, classifies every usable quote, enriches
// eligible tiers and publishes the assembled report. When every batch fails an
// empty report is still published and dto.ErrQuoteSourceUnreachable is returned.
func (s *scanService) Scan(ctx context.Context) (*entity.Report, *dto.ScanSummary, error) {
	baselines := s.store.Snapshot()
	universe := baselines.Codes()
	if len(universe) == 0 {
		return nil, nil, dto.ErrEmptyBaseline
	}

	started := s.now()
	scanID := uuid.NewString()
	ctx = logger.WithFields(ctx, logger.StringField("scan_id", scanID))
	s.log.InfoContext(ctx, "Starting scan", logger.IntField("universe", len(universe)), logger.BoolField("legacy_mode", s.classifier.Legacy()))

	polled, err := s.poller.Poll(ctx, universe)
	if err != nil {
		return nil, nil, fmt.Errorf("scan interrupted after %d batches: %w", len(polled.Batches), err)
	}

	results := make([]entity.ClassificationResult, 0, len(polled.Quotes))
	enriched := 0
	for _, q := range polled.Quotes {
		if !q.Usable() {
			continue
		}
		b, ok := baselines.Get(q.Code)
		if !ok {
			continue
		}
		r := s.classifier.Classify(*q.Price, b)
		metrics.ClassificationsTotal.WithLabelValues(string(r.Tier)).Inc()

		if !s.classifier.Legacy() && s.enricher != nil {
			if s.enricher.Eligible(r.Tier) {
				enriched++
			}
			r = s.enricher.Enrich(ctx, r)
		}
		results = append(results, r)
	}

	report := Assemble(results, s.cfg.Scanner.IncludeRangeBound)
	finished := s.now()
	report.ScanID = scanID
	report.GeneratedAt = finished

	summary := &dto.ScanSummary{
		ScanID:        scanID,
		Universe:      len(universe),
		Quotes:        len(polled.Quotes),
		Classified:    len(results),
		Enriched:      enriched,
		FailedBatches: polled.FailedBatches(),
		Total:         report.Total,
		Duration:      finished.Sub(started).Round(time.Millisecond).String(),
	}
	metrics.ScanDuration.Observe(finished.Sub(started).Seconds())
	metrics.ReportItems.Set(float64(report.Total))

	var scanErr error
	if polled.AllFailed() {
		scanErr = fmt.Errorf("all %d quote batches failed: %w", len(polled.Batches), dto.ErrQuoteSourceUnreachable)
		s.log.ErrorContext(ctx, "Quote source unreachable for the whole scan", logger.IntField("batches", len(polled.Batches)))
	}

	if err := s.publish(ctx, report, *summary, polled, started); err != nil {
		scanErr = errors.Join(scanErr, err)
	}

	s.log.InfoContext(ctx, "Scan finished",
		logger.IntField("quotes", summary.Quotes),
		logger.IntField("classified", summary.Classified),
		logger.IntField("report_items", summary.Total),
		logger.IntField("failed_batches", summary.FailedBatches),
	)
	return &report, summary, scanErr
}

// publish persists the report. Cache and notifier failures are logged only.
func (s *scanService) publish(ctx context.Context, report entity.Report, summary dto.ScanSummary, polled dto.PollResult, started time.Time) error {
	var persistErr error
	if s.reportRepo != nil {
		record, err := toScanReport(report, summary, polled, started, s.classifier.Legacy())
		if err != nil {
			persistErr = err
		} else if err := s.reportRepo.Create(ctx, record); err != nil {
			persistErr = fmt.Errorf("failed to persist report: %w", err)
		}
		if persistErr != nil {
			s.log.ErrorContext(ctx, "Failed to persist report", logger.ErrorField(persistErr))
		}
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetLatest(ctx, report, s.cfg.Report.CacheTTL); err != nil {
			s.log.WarnContext(ctx, "Failed to cache latest report", logger.ErrorField(err))
		}
		if err := s.cacheRepo.PublishCompleted(ctx, summary); err != nil {
			s.log.WarnContext(ctx, "Failed to publish scan completion", logger.ErrorField(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyReport(ctx, report, summary); err != nil {
			s.log.WarnContext(ctx, "Failed to send report notification", logger.ErrorField(err))
		}
	}
	return persistErr
}

func toScanReport(report entity.Report, summary dto.ScanSummary, polled dto.PollResult, started time.Time, legacy bool) (*entity.ScanReport, error) {
	batches, err := json.Marshal(polled.Batches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch outcomes: %w", err)
	}
	items := make([]entity.ScanReportItem, 0, len(report.Items))
	for i, it := range report.Items {
		items = append(items, entity.ScanReportItem{
			Rank:           i + 1,
			Code:           it.Code,
			Name:           it.Name,
			Price:          it.Price,
			DiffFromLowPct: it.DiffFromLowPct,
			Tier:           string(it.Tier),
			Headline:       it.Headline,
			Remark:         it.Remark,
			SentimentScore: it.SentimentScore,
			Keywords:       it.Keywords,
		})
	}
	return &entity.ScanReport{
		ScanID:         report.ScanID,
		StartedAt:      started,
		FinishedAt:     report.GeneratedAt,
		UniverseSize:   summary.Universe,
		QuotesReceived: summary.Quotes,
		FailedBatches:  summary.FailedBatches,
		Total:          report.Total,
		LegacyMode:     legacy,
		Batches:        datatypes.JSON(batches),
		Items:          items,
	}, nil
}

// LatestReport prefers the cache and falls back to the database.
func (s *scanService) LatestReport(ctx context.Context) (*entity.Report, error) {
	if s.cacheRepo != nil {
		report, err := s.cacheRepo.GetLatest(ctx)
		if err == nil {
			return report, nil
		}
		if !errors.Is(err, dto.ErrReportNotFound) {
			s.log.WarnContext(ctx, "Failed to read cached report", logger.ErrorField(err))
		}
	}
	if s.reportRepo == nil {
		return nil, dto.ErrReportNotFound
	}
	record, err := s.reportRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	report := record.ToReport()
	return &report, nil
}

func (s *scanService) ReportByScanID(ctx context.Context, scanID string) (*entity.Report, error) {
	if s.reportRepo == nil {
		return nil, dto.ErrReportNotFound
	}
	record, err := s.reportRepo.FindByScanID(ctx, scanID)
	if err != nil {
		return nil, err
	}
	report := record.ToReport()
	return &report, nil
}

func (s *scanService) ListReports(ctx context.Context, limit int) ([]entity.ScanReport, error) {
	if s.reportRepo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > s.cfg.Report.HistoryLimit {
		limit = s.cfg.Report.HistoryLimit
	}
	return s.reportRepo.List(ctx, limit)
}
