package service

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/metrics"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/internal/scanner/repository"
	"stock-sniper/pkg/common"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"
)

// PollerConfig controls batching and back-off of a poll pass.
type PollerConfig struct {
	BatchSize    int
	DelayMin     time.Duration
	DelayMax     time.Duration
	Cooldown     time.Duration
	FailureDelay time.Duration
}

// Poller walks the universe in fixed-size batches, one bulk request per batch.
// Batches are strictly sequential.
type Poller struct {
	quotes repository.QuoteSource
	log    *logger.Logger
	cfg    PollerConfig

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewPoller creates a poller. A non-positive batch size falls back to 8.
func NewPoller(quotes repository.QuoteSource, log *logger.Logger, cfg PollerConfig) *Poller {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 8
	}
	return &Poller{
		quotes: quotes,
		log:    log,
		cfg:    cfg,
		sleep:  utils.Sleep,
		now:    time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *Poller) jitter() time.Duration {
	p.rndMu.Lock()
	defer p.rndMu.Unlock()
	return utils.RandomDuration(p.rnd, p.cfg.DelayMin, p.cfg.DelayMax)
}

// Poll runs one pass over codes. Quotes come back in input order. A failed batch
// is skipped after a cooldown (connection failures) or a short delay (anything else);
// the pass always proceeds to the next batch. On cancellation the quotes gathered
// so far are returned along with the context error.
func (p *Poller) Poll(ctx context.Context, codes []string) (dto.PollResult, error) {
	result := dto.PollResult{
		Quotes:  make([]entity.Quote, 0, len(codes)),
		Batches: make([]dto.BatchOutcome, 0, (len(codes)+p.cfg.BatchSize-1)/p.cfg.BatchSize),
	}

	for index, start := 0, 0; start < len(codes); index, start = index+1, start+p.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := start + p.cfg.BatchSize
		if end > len(codes) {
			end = len(codes)
		}
		batch := codes[start:end]
		last := end == len(codes)

		outcome := dto.BatchOutcome{
			Index: index,
			Codes: append([]string(nil), batch...),
		}

		raw, err := p.quotes.FetchQuotes(ctx, batch)
		if err == nil && len(raw) == 0 {
			err = dto.ErrEmptyResponse
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			kind := dto.ClassifyProviderError(err)
			wait := p.cfg.FailureDelay
			if kind == dto.FailureConnection {
				wait = p.cfg.Cooldown
			}
			outcome.Status = common.StatusFailed
			outcome.FailureKind = kind
			outcome.Error = err.Error()
			result.Batches = append(result.Batches, outcome)
			metrics.QuoteBatchesTotal.WithLabelValues(common.StatusFailed, string(kind)).Inc()

			p.log.WarnContext(ctx, "Quote batch failed, skipping",
				logger.IntField("batch", index),
				logger.StringField("failure_kind", string(kind)),
				logger.DurationField("wait", wait),
				logger.ErrorField(err),
			)
			if last {
				break
			}
			if err := p.sleep(ctx, wait); err != nil {
				return result, err
			}
			continue
		}

		observedAt := p.now()
		outcome.Status = common.StatusSuccess
		outcome.Outcomes = make(map[string]dto.QuoteOutcome, len(batch))
		for _, code := range batch {
			quote, qo := toQuote(code, raw, observedAt)
			outcome.Outcomes[code] = qo
			metrics.QuoteOutcomesTotal.WithLabelValues(string(qo)).Inc()
			if qo != dto.QuoteOK {
				continue
			}
			result.Quotes = append(result.Quotes, quote)
			outcome.Quotes++
		}
		result.Batches = append(result.Batches, outcome)
		metrics.QuoteBatchesTotal.WithLabelValues(common.StatusSuccess, "").Inc()

		p.log.DebugContext(ctx, "Quote batch polled",
			logger.IntField("batch", index),
			logger.IntField("quotes", outcome.Quotes),
			logger.IntField("requested", len(batch)),
		)
		if last {
			break
		}
		if err := p.sleep(ctx, p.jitter()); err != nil {
			return result, err
		}
	}
	return result, nil
}

// toQuote matches a code against the bulk response by key.
func toQuote(code string, raw map[string]dto.QuoteResult, observedAt time.Time) (entity.Quote, dto.QuoteOutcome) {
	r, ok := raw[code]
	if !ok || !r.Success {
		return entity.Quote{}, dto.QuoteNotReported
	}
	if r.Price == nil {
		return entity.Quote{}, dto.QuoteNoTrade
	}
	s := strings.TrimSpace(strings.ReplaceAll(*r.Price, ",", ""))
	if s == "" || strings.Trim(s, "-") == "" {
		return entity.Quote{}, dto.QuoteNoTrade
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return entity.Quote{}, dto.QuoteUnparseable
	}
	return entity.Quote{
		Code:       code,
		Price:      &price,
		Success:    true,
		ObservedAt: observedAt,
	}, dto.QuoteOK
}
