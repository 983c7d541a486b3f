package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/common"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ascending returns n closes valued start, start+1, ...
func ascending(start, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(start + i)
	}
	return out
}

func dailyCloses(values []float64) []dto.DailyClose {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]dto.DailyClose, 0, len(values))
	for i, v := range values {
		out = append(out, dto.DailyClose{Date: day.AddDate(0, 0, i), Close: utils.ToPointer(v)})
	}
	return out
}

func TestComputeBaselineRequiresFullWindow(t *testing.T) {
	inst := entity.Instrument{Code: "2330", Name: "台積電"}

	_, err := ComputeBaseline(inst, ascending(1, 199), 200, 5, 20)
	assert.ErrorIs(t, err, dto.ErrDataInsufficient)

	b, err := ComputeBaseline(inst, ascending(1, 200), 200, 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Low200)
	assert.Equal(t, 200.0, b.High200)
	assert.InDelta(t, 198.0, b.Ma5Ref, 1e-9)
	assert.InDelta(t, 190.5, b.Ma20Ref, 1e-9)
	assert.Equal(t, 200, b.Sessions)
	assert.Equal(t, "台積電", b.Name)
}

func TestComputeBaselineUsesMostRecentWindow(t *testing.T) {
	b, err := ComputeBaseline(entity.Instrument{Code: "1101"}, ascending(1, 250), 200, 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 51.0, b.Low200)
	assert.Equal(t, 250.0, b.High200)
	assert.InDelta(t, 248.0, b.Ma5Ref, 1e-9)
	assert.InDelta(t, 240.5, b.Ma20Ref, 1e-9)
}

func TestComputeBaselineFlatWindowIsDegenerate(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 10
	}
	b, err := ComputeBaseline(entity.Instrument{Code: "1101"}, closes, 200, 5, 20)
	require.NoError(t, err)
	assert.True(t, b.Degenerate())
}

func TestEligibleCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "1101", want: true},
		{code: "2330", want: true},
		{code: "0050", want: false},
		{code: "00878", want: false},
		{code: "030001", want: false},
		{code: "12A4", want: false},
		{code: "1000", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, EligibleCode(tt.code, "1101"))
		})
	}
}

func newTestBaselineService(cfg *config.Config, history *fakeHistorySource, listing *fakeListingSource, repo *fakeBaselineRepo, cache *fakeCacheRepo) (*baselineService, *BaselineStore) {
	store := NewBaselineStore()
	svc := NewBaselineService(cfg, logger.NewNop(), store, history, listing, nil, nil).(*baselineService)
	if repo != nil {
		svc.baselineRepo = repo
	}
	if cache != nil {
		svc.cacheRepo = cache
	}
	svc.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return svc, store
}

func TestBaselineRebuild(t *testing.T) {
	cfg := config.Default()
	cfg.Baseline.MaxConcurrent = 3

	withGaps := append(dailyCloses(ascending(10, 200)), dto.DailyClose{Date: time.Now()})
	history := &fakeHistorySource{
		closes: map[string][]dto.DailyClose{
			"1101": withGaps,
			"2330": dailyCloses(ascending(500, 240)),
			"2603": dailyCloses(ascending(20, 199)),
		},
		errs: map[string]error{"2609": errors.New("connection reset by peer")},
	}
	listing := &fakeListingSource{instruments: []entity.Instrument{
		{Code: "0050", Name: "元大台灣50"},
		{Code: "00878", Name: "國泰永續高股息"},
		{Code: "2330", Name: "台積電"},
		{Code: "1101", Name: "台泥"},
		{Code: "2603", Name: "長榮"},
		{Code: "2609", Name: "陽明"},
		{Code: "2330", Name: "台積電"},
	}}
	repo := &fakeBaselineRepo{}
	cache := &fakeCacheRepo{}
	svc, store := newTestBaselineService(cfg, history, listing, repo, cache)

	summary, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Requested)
	assert.Equal(t, 2, summary.Built)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)

	statuses := map[string]string{}
	for _, o := range summary.Outcomes {
		statuses[o.Code] = o.Status
	}
	assert.Equal(t, map[string]string{
		"1101": common.StatusSuccess,
		"2330": common.StatusSuccess,
		"2603": common.StatusSkipped,
		"2609": common.StatusFailed,
	}, statuses)

	assert.Equal(t, []string{"1101", "2330"}, store.Universe())
	b, ok := store.Get("2330")
	require.True(t, ok)
	assert.Equal(t, "台積電", b.Name)
	assert.Equal(t, 540.0, b.Low200)
	assert.Equal(t, 739.0, b.High200)

	require.Len(t, repo.stored, 2)
	assert.Equal(t, "1101", repo.stored[0].Code)
	assert.False(t, cache.baselineAt.IsZero())
	assert.Equal(t, cache.baselineAt, store.GeneratedAt())
}

func TestBaselineRebuildConfiguredCodes(t *testing.T) {
	cfg := config.Default()
	cfg.Baseline.Codes = []string{"2330", "9999", "2330"}

	history := &fakeHistorySource{closes: map[string][]dto.DailyClose{
		"2330": dailyCloses(ascending(1, 200)),
		"9999": dailyCloses(ascending(1, 200)),
	}}
	listing := &fakeListingSource{err: errors.New("listing down")}
	svc, store := newTestBaselineService(cfg, history, listing, nil, nil)

	summary, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Requested)
	assert.Equal(t, []string{"2330", "9999"}, store.Universe())

	b, _ := store.Get("9999")
	assert.Equal(t, "9999", b.Name)
}

func TestBaselineRebuildEmptyKeepsCurrentSet(t *testing.T) {
	cfg := config.Default()
	history := &fakeHistorySource{closes: map[string][]dto.DailyClose{
		"1101": dailyCloses(ascending(1, 30)),
	}}
	listing := &fakeListingSource{instruments: []entity.Instrument{{Code: "1101", Name: "台泥"}}}
	repo := &fakeBaselineRepo{}
	svc, store := newTestBaselineService(cfg, history, listing, repo, nil)

	previous := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	store.Replace([]entity.InstrumentBaseline{{Code: "2330", Low200: 500, High200: 800}}, previous)

	summary, err := svc.Rebuild(context.Background())
	assert.ErrorIs(t, err, dto.ErrEmptyBaseline)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Skipped)

	assert.Equal(t, []string{"2330"}, store.Universe())
	assert.Equal(t, previous, store.GeneratedAt())
	assert.Empty(t, repo.stored)
}

func TestBaselineRebuildCancelledDoesNotSwap(t *testing.T) {
	cfg := config.Default()
	history := &fakeHistorySource{closes: map[string][]dto.DailyClose{
		"1101": dailyCloses(ascending(1, 200)),
		"1102": dailyCloses(ascending(1, 200)),
	}}
	listing := &fakeListingSource{instruments: []entity.Instrument{{Code: "1101"}, {Code: "1102"}}}
	svc, store := newTestBaselineService(cfg, history, listing, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	svc.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := svc.Rebuild(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Len())
}

func TestBaselineLoad(t *testing.T) {
	older := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	repo := &fakeBaselineRepo{stored: []entity.InstrumentBaseline{
		{Code: "2330", UpdatedAt: older},
		{Code: "1101", UpdatedAt: newer},
	}}
	svc, store := newTestBaselineService(config.Default(), &fakeHistorySource{}, &fakeListingSource{}, repo, nil)

	n, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"1101", "2330"}, store.Universe())
	assert.Equal(t, newer, store.GeneratedAt())
}
