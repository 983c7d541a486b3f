package service

import (
	"context"
	"sync"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
)

type fakeQuoteSource struct {
	mu     sync.Mutex
	calls  [][]string
	fail   map[int]error
	empty  map[int]bool
	prices map[string]string
	// onFetch runs before each batch is answered.
	onFetch func(idx int)
}

func (f *fakeQuoteSource) FetchQuotes(ctx context.Context, codes []string) (map[string]dto.QuoteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.calls)
	f.calls = append(f.calls, append([]string(nil), codes...))
	if f.onFetch != nil {
		f.onFetch(idx)
	}
	if err, ok := f.fail[idx]; ok {
		return nil, err
	}
	if f.empty[idx] {
		return nil, nil
	}
	out := make(map[string]dto.QuoteResult, len(codes))
	for _, code := range codes {
		price, ok := f.prices[code]
		if !ok {
			price = "100.0"
		}
		if price == "<absent>" {
			continue
		}
		p := price
		out[code] = dto.QuoteResult{Success: true, Price: &p}
	}
	return out, nil
}

type recordedSleeps struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

type fakeHistorySource struct {
	closes map[string][]dto.DailyClose
	errs   map[string]error
}

func (f *fakeHistorySource) GetDailyCloses(ctx context.Context, code string, from time.Time) ([]dto.DailyClose, error) {
	if err, ok := f.errs[code]; ok {
		return nil, err
	}
	return f.closes[code], nil
}

type fakeListingSource struct {
	instruments []entity.Instrument
	err         error
}

func (f *fakeListingSource) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	return f.instruments, f.err
}

type fakeBaselineRepo struct {
	stored []entity.InstrumentBaseline
	err    error
}

func (f *fakeBaselineRepo) ReplaceAll(ctx context.Context, baselines []entity.InstrumentBaseline) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append([]entity.InstrumentBaseline(nil), baselines...)
	return nil
}

func (f *fakeBaselineRepo) FindAll(ctx context.Context) ([]entity.InstrumentBaseline, error) {
	return f.stored, f.err
}

type fakeReportRepo struct {
	created []*entity.ScanReport
}

func (f *fakeReportRepo) Create(ctx context.Context, report *entity.ScanReport) error {
	f.created = append(f.created, report)
	return nil
}

func (f *fakeReportRepo) FindLatest(ctx context.Context) (*entity.ScanReport, error) {
	if len(f.created) == 0 {
		return nil, dto.ErrReportNotFound
	}
	return f.created[len(f.created)-1], nil
}

func (f *fakeReportRepo) FindByScanID(ctx context.Context, scanID string) (*entity.ScanReport, error) {
	for _, r := range f.created {
		if r.ScanID == scanID {
			return r, nil
		}
	}
	return nil, dto.ErrReportNotFound
}

func (f *fakeReportRepo) List(ctx context.Context, limit int) ([]entity.ScanReport, error) {
	var out []entity.ScanReport
	for i := len(f.created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.created[i])
	}
	return out, nil
}

type fakeCacheRepo struct {
	latest      *entity.Report
	published   []dto.ScanSummary
	baselineAt  time.Time
	getLatestOK bool
}

func (f *fakeCacheRepo) SetLatest(ctx context.Context, report entity.Report, ttl time.Duration) error {
	f.latest = &report
	return nil
}

func (f *fakeCacheRepo) GetLatest(ctx context.Context) (*entity.Report, error) {
	if !f.getLatestOK || f.latest == nil {
		return nil, dto.ErrReportNotFound
	}
	return f.latest, nil
}

func (f *fakeCacheRepo) PublishCompleted(ctx context.Context, summary dto.ScanSummary) error {
	f.published = append(f.published, summary)
	return nil
}

func (f *fakeCacheRepo) SetBaselineGeneratedAt(ctx context.Context, at time.Time) error {
	f.baselineAt = at
	return nil
}

type fakeNotifier struct {
	reports []entity.Report
}

func (f *fakeNotifier) NotifyReport(ctx context.Context, report entity.Report, summary dto.ScanSummary) error {
	f.reports = append(f.reports, report)
	return nil
}
