package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/metrics"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/internal/scanner/repository"
	"stock-sniper/pkg/common"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"
)

// BaselineService builds, persists and serves the baseline set.
type BaselineService interface {
	Rebuild(ctx context.Context) (*dto.RebuildSummary, error)
	Load(ctx context.Context) (int, error)
	Store() *BaselineStore
}

type baselineService struct {
	cfg          *config.Config
	log          *logger.Logger
	store        *BaselineStore
	history      repository.HistorySource
	listing      repository.ListingSource
	baselineRepo repository.BaselineRepository
	cacheRepo    repository.ReportCacheRepository

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewBaselineService creates a baseline service. baselineRepo and cacheRepo may be nil.
func NewBaselineService(
	cfg *config.Config,
	log *logger.Logger,
	store *BaselineStore,
	history repository.HistorySource,
	listing repository.ListingSource,
	baselineRepo repository.BaselineRepository,
	cacheRepo repository.ReportCacheRepository,
) BaselineService {
	return &baselineService{
		cfg:          cfg,
		log:          log,
		store:        store,
		history:      history,
		listing:      listing,
		baselineRepo: baselineRepo,
		cacheRepo:    cacheRepo,
		sleep:        utils.Sleep,
		now:          utils.TimeNowTaipei,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *baselineService) Store() *BaselineStore {
	return s.store
}

// Load fills the store from the persisted set.
func (s *baselineService) Load(ctx context.Context) (int, error) {
	if s.baselineRepo == nil {
		return 0, nil
	}
	baselines, err := s.baselineRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load baselines: %w", err)
	}
	var generatedAt time.Time
	for _, b := range baselines {
		if b.UpdatedAt.After(generatedAt) {
			generatedAt = b.UpdatedAt
		}
	}
	s.store.Replace(baselines, generatedAt)
	metrics.BaselineInstruments.Set(float64(s.store.Len()))
	return s.store.Len(), nil
}

// Rebuild recomputes every baseline from history and swaps the result in.
// Instruments without enough history are skipped. An empty result leaves the
// current set in place.
func (s *baselineService) Rebuild(ctx context.Context) (*dto.RebuildSummary, error) {
	started := time.Now()
	instruments, err := s.universe(ctx)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Starting baseline rebuild",
		logger.IntField("instruments", len(instruments)),
		logger.IntField("max_concurrent", s.cfg.Baseline.MaxConcurrent),
	)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		baselines []entity.InstrumentBaseline
		outcomes  []dto.RebuildOutcome
	)
	from := s.now().AddDate(0, 0, -s.cfg.Baseline.LookbackDays)
	semaphore := make(chan struct{}, s.cfg.Baseline.MaxConcurrent)

	for _, inst := range instruments {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		semaphore <- struct{}{}
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			b, outcome := s.buildOne(ctx, inst, from)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			if outcome.Status == common.StatusSuccess {
				baselines = append(baselines, b)
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("baseline rebuild interrupted: %w", err)
	}

	sort.Slice(baselines, func(i, j int) bool { return baselines[i].Code < baselines[j].Code })
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Code < outcomes[j].Code })

	summary := &dto.RebuildSummary{
		Requested: len(instruments),
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		switch o.Status {
		case common.StatusSuccess:
			summary.Built++
		case common.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	summary.Duration = time.Since(started).Round(time.Millisecond).String()

	if len(baselines) == 0 {
		return summary, fmt.Errorf("no baseline could be built from %d instruments: %w", len(instruments), dto.ErrEmptyBaseline)
	}

	generatedAt := s.now()
	s.store.Replace(baselines, generatedAt)
	metrics.BaselineInstruments.Set(float64(s.store.Len()))

	s.log.InfoContext(ctx, "Baseline rebuild finished",
		logger.IntField("built", summary.Built),
		logger.IntField("skipped", summary.Skipped),
		logger.IntField("failed", summary.Failed),
	)

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetBaselineGeneratedAt(ctx, generatedAt); err != nil {
			s.log.WarnContext(ctx, "Failed to record baseline timestamp", logger.ErrorField(err))
		}
	}
	if s.baselineRepo != nil {
		if err := s.baselineRepo.ReplaceAll(ctx, baselines); err != nil {
			return summary, fmt.Errorf("failed to persist baselines: %w", err)
		}
	}
	return summary, nil
}

func (s *baselineService) buildOne(ctx context.Context, inst entity.Instrument, from time.Time) (entity.InstrumentBaseline, dto.RebuildOutcome) {
	outcome := dto.RebuildOutcome{Code: inst.Code}

	closes, err := s.history.GetDailyCloses(ctx, inst.Code, from)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch history, skipping instrument",
			logger.StringField("stock_code", inst.Code),
			logger.ErrorField(err),
		)
		outcome.Status = common.StatusFailed
		outcome.Error = err.Error()
		metrics.RebuildOutcomesTotal.WithLabelValues(outcome.Status).Inc()
		return entity.InstrumentBaseline{}, outcome
	}

	prices := make([]float64, 0, len(closes))
	for _, c := range closes {
		if c.Close != nil {
			prices = append(prices, *c.Close)
		}
	}
	outcome.Sessions = len(prices)

	b, err := ComputeBaseline(inst, prices, s.cfg.Baseline.WindowSize, s.cfg.Baseline.MaShort, s.cfg.Baseline.MaLong)
	switch {
	case errors.Is(err, dto.ErrDataInsufficient):
		outcome.Status = common.StatusSkipped
		outcome.Error = err.Error()
	case err != nil:
		outcome.Status = common.StatusFailed
		outcome.Error = err.Error()
	default:
		b.UpdatedAt = s.now()
		outcome.Status = common.StatusSuccess
	}
	metrics.RebuildOutcomesTotal.WithLabelValues(outcome.Status).Inc()

	if err := s.sleep(ctx, s.courtesyDelay()); err != nil {
		outcome.Status = common.StatusFailed
		outcome.Error = err.Error()
	}
	return b, outcome
}

func (s *baselineService) courtesyDelay() time.Duration {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return utils.RandomDuration(s.rnd, s.cfg.Baseline.RequestDelayMin, s.cfg.Baseline.RequestDelayMax)
}

// universe resolves the instruments to rebuild: the configured code list when
// present, otherwise every eligible listed code.
func (s *baselineService) universe(ctx context.Context) ([]entity.Instrument, error) {
	bc := s.cfg.Baseline

	var listed []entity.Instrument
	if s.listing != nil {
		var err error
		listed, err = s.listing.ListInstruments(ctx)
		if err != nil {
			if len(bc.Codes) == 0 {
				return nil, fmt.Errorf("failed to list instruments: %w", err)
			}
			s.log.WarnContext(ctx, "Failed to list instruments, using codes as names", logger.ErrorField(err))
		}
	}

	names := make(map[string]string, len(listed))
	for _, inst := range listed {
		names[inst.Code] = inst.Name
	}

	var candidates []entity.Instrument
	if len(bc.Codes) > 0 {
		for _, code := range bc.Codes {
			name := names[code]
			if name == "" {
				name = code
			}
			candidates = append(candidates, entity.Instrument{Code: code, Name: name})
		}
	} else {
		for _, inst := range listed {
			if EligibleCode(inst.Code, bc.StartCode) {
				candidates = append(candidates, inst)
			}
		}
	}

	seen := make(map[string]bool, len(candidates))
	instruments := make([]entity.Instrument, 0, len(candidates))
	for _, inst := range candidates {
		if seen[inst.Code] {
			continue
		}
		seen[inst.Code] = true
		instruments = append(instruments, inst)
	}
	sort.Slice(instruments, func(i, j int) bool { return instruments[i].Code < instruments[j].Code })

	if bc.MaxInstruments > 0 && len(instruments) > bc.MaxInstruments {
		instruments = instruments[:bc.MaxInstruments]
	}
	return instruments, nil
}

// EligibleCode accepts four-digit common stock codes at or after startCode.
// ETFs, warrants and other longer identifiers are rejected.
func EligibleCode(code, startCode string) bool {
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return startCode == "" || code >= startCode
}

// ComputeBaseline derives the window statistics from ordered non-null closes.
func ComputeBaseline(inst entity.Instrument, closes []float64, window, maShort, maLong int) (entity.InstrumentBaseline, error) {
	if window <= 0 {
		return entity.InstrumentBaseline{}, fmt.Errorf("invalid window size %d", window)
	}
	if len(closes) < window {
		return entity.InstrumentBaseline{}, fmt.Errorf("%s has %d closes, need %d: %w", inst.Code, len(closes), window, dto.ErrDataInsufficient)
	}
	recent := closes[len(closes)-window:]

	low, high := recent[0], recent[0]
	for _, c := range recent[1:] {
		if c < low {
			low = c
		}
		if c > high {
			high = c
		}
	}

	return entity.InstrumentBaseline{
		Code:     inst.Code,
		Name:     inst.Name,
		Low200:   low,
		High200:  high,
		Ma5Ref:   mean(tail(recent, maShort)),
		Ma20Ref:  mean(tail(recent, maLong)),
		Sessions: window,
	}, nil
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || n > len(values) {
		return values
	}
	return values[len(values)-n:]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
