package service

import (
	"context"
	"errors"
	"testing"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeHeadlines struct {
	headlines []string
	err       error
	queries   []string
}

func (f *fakeHeadlines) LatestHeadlines(ctx context.Context, query string, limit int) ([]string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.headlines) > limit {
		return f.headlines[:limit], nil
	}
	return f.headlines, nil
}

func newTestEnricher(src *fakeHeadlines) *Enricher {
	tiers := []entity.Tier{entity.TierBreakoutHigh, entity.TierApproachingHigh, entity.TierBottomReversal}
	return NewEnricher(src, logger.NewNop(), tiers, config.DefaultPositiveKeywords, config.DefaultNegativeKeywords, 3)
}

func TestScoreHeadlines(t *testing.T) {
	score, keywords := ScoreHeadlines(
		[]string{"台積電 營收 創高 外資看好", "半導體需求 衰退 疑慮"},
		config.DefaultPositiveKeywords,
		config.DefaultNegativeKeywords,
	)
	assert.Equal(t, 1, score)
	assert.Equal(t, []string{"營收", "創高", "衰退"}, keywords)
	assert.Equal(t, "bullish (營收,創高,衰退)", Remark(score, keywords))
}

func TestScoreHeadlinesCountsPerHeadline(t *testing.T) {
	score, keywords := ScoreHeadlines(
		[]string{"營收 營收 重挫", "營收", "重挫 跌停"},
		config.DefaultPositiveKeywords,
		config.DefaultNegativeKeywords,
	)
	assert.Equal(t, -1, score)
	assert.Equal(t, []string{"營收", "重挫", "跌停"}, keywords)
	assert.Equal(t, "bearish (營收,重挫,跌停)", Remark(score, keywords))
	assert.Equal(t, RemarkNeutral, Remark(0, []string{"營收", "重挫"}))
}

func TestEnrichEligibleTier(t *testing.T) {
	src := &fakeHeadlines{headlines: []string{"長榮 營收 創高", "運價 衰退", "舊聞 成長"}}
	e := newTestEnricher(src)

	in := entity.ClassificationResult{Code: "2603", Name: "長榮", Tier: entity.TierBottomReversal}
	out := e.Enrich(context.Background(), in)

	assert.Equal(t, []string{"長榮"}, src.queries)
	assert.Equal(t, "長榮 營收 創高", out.Headline)
	assert.Equal(t, 2, out.SentimentScore)
	assert.Equal(t, "bullish (營收,創高,衰退,成長)", out.Remark)
	assert.Equal(t, entity.TierBottomReversal, out.Tier)
	assert.Empty(t, in.Remark, "input must not be modified")
}

func TestEnrichSkipsIneligibleTier(t *testing.T) {
	src := &fakeHeadlines{headlines: []string{"營收"}}
	e := newTestEnricher(src)

	out := e.Enrich(context.Background(), entity.ClassificationResult{Code: "1101", Name: "台泥", Tier: entity.TierDeepLow})
	assert.Empty(t, src.queries)
	assert.Equal(t, RemarkSkipped, out.Remark)
	assert.Empty(t, out.Headline)
}

func TestEnrichDegradesOnFailure(t *testing.T) {
	src := &fakeHeadlines{err: errors.Join(dto.ErrEnrichmentUnavailable, context.DeadlineExceeded)}
	e := newTestEnricher(src)

	out := e.Enrich(context.Background(), entity.ClassificationResult{Code: "2330", Name: "台積電", Tier: entity.TierBreakoutHigh})
	assert.Equal(t, HeadlineUnavailable, out.Headline)
	assert.Equal(t, 0, out.SentimentScore)
	assert.Equal(t, RemarkUnavailable, out.Remark)
	assert.Equal(t, entity.TierBreakoutHigh, out.Tier)
}

func TestEnrichNoHeadlines(t *testing.T) {
	e := newTestEnricher(&fakeHeadlines{})

	out := e.Enrich(context.Background(), entity.ClassificationResult{Code: "2330", Name: "台積電", Tier: entity.TierApproachingHigh})
	assert.Equal(t, HeadlineNone, out.Headline)
	assert.Equal(t, 0, out.SentimentScore)
	assert.Equal(t, RemarkFlat, out.Remark)
}
