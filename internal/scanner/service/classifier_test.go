package service

import (
	"math"
	"math/rand"
	"testing"

	"stock-sniper/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseline(low, high, ma5 float64) entity.InstrumentBaseline {
	return entity.InstrumentBaseline{Code: "2330", Name: "台積電", Low200: low, High200: high, Ma5Ref: ma5, Ma20Ref: ma5}
}

func TestClassifierTiers(t *testing.T) {
	c := NewClassifier(false)
	tests := []struct {
		name  string
		price float64
		b     entity.InstrumentBaseline
		want  entity.Tier
	}{
		{name: "price equals high", price: 200, b: baseline(100, 200, 250), want: entity.TierBreakoutHigh},
		{name: "above high", price: 230, b: baseline(100, 200, 150), want: entity.TierBreakoutHigh},
		{name: "exactly 95pct of high", price: 190, b: baseline(100, 200, 150), want: entity.TierApproachingHigh},
		{name: "just under 95pct above ma5", price: 189.9, b: baseline(100, 200, 150), want: entity.TierBullTrend},
		{name: "upper range below ma5", price: 180, b: baseline(100, 200, 185), want: entity.TierPullbackFromHigh},
		{name: "exactly 105pct of low", price: 105, b: baseline(100, 200, 50), want: entity.TierDeepLow},
		{name: "below low", price: 90, b: baseline(100, 200, 50), want: entity.TierDeepLow},
		{name: "low band above ma5", price: 112, b: baseline(100, 200, 110), want: entity.TierBottomReversal},
		{name: "low band at ma5", price: 110, b: baseline(100, 200, 110), want: entity.TierLowConsolidation},
		{name: "mid range", price: 150, b: baseline(100, 200, 140), want: entity.TierRangeBound},
		{name: "lower range on a wide window", price: 200, b: baseline(100, 1000, 150), want: entity.TierLowConsolidation},
		{name: "degenerate at price", price: 100, b: baseline(100, 100, 100), want: entity.TierRangeBound},
		{name: "degenerate above", price: 150, b: baseline(100, 100, 100), want: entity.TierRangeBound},
		{name: "degenerate below", price: 50, b: baseline(100, 100, 100), want: entity.TierRangeBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Tier(tt.price, tt.b))
		})
	}
}

func TestClassifierAlwaysReturnsKnownTier(t *testing.T) {
	c := NewClassifier(false)
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		low := 1 + rnd.Float64()*500
		high := low + rnd.Float64()*500 + 0.01
		price := rnd.Float64() * 1200
		ma5 := low + rnd.Float64()*(high-low)
		tier := c.Tier(price, baseline(low, high, ma5))
		require.True(t, tier.Valid())
		require.NotEqual(t, entity.TierGeneral, tier)
		if price >= high {
			require.Equal(t, entity.TierBreakoutHigh, tier)
		}
	}
}

func TestLegacyClassifier(t *testing.T) {
	c := NewClassifier(true)
	assert.True(t, c.Legacy())
	assert.Equal(t, entity.TierBreakoutHigh, c.Tier(200, baseline(100, 200, 150)))
	assert.Equal(t, entity.TierBottomReversal, c.Tier(110, baseline(100, 200, 105)))
	assert.Equal(t, entity.TierLowConsolidation, c.Tier(109, baseline(100, 200, 109)))
	assert.Equal(t, entity.TierGeneral, c.Tier(150, baseline(100, 200, 140)))
	assert.Equal(t, entity.TierGeneral, c.Tier(100, baseline(100, 100, 100)))
}

func TestClassifyDiffFromLow(t *testing.T) {
	c := NewClassifier(false)

	r := c.Classify(120, baseline(100, 200, 110))
	require.NotNil(t, r.DiffFromLowPct)
	assert.InDelta(t, 20.0, *r.DiffFromLowPct, 1e-9)
	assert.Equal(t, "2330", r.Code)
	assert.Equal(t, "台積電", r.Name)

	r = c.Classify(0.5, baseline(0, 0, 0))
	assert.Nil(t, r.DiffFromLowPct)
	assert.Equal(t, entity.TierRangeBound, r.Tier)
	assert.False(t, math.IsNaN(r.Price))
}

func TestRuleTablesEndWithCatchAll(t *testing.T) {
	for _, rules := range [][]Rule{SignalRules, LegacyRules} {
		last := rules[len(rules)-1]
		assert.True(t, last.Match(0, entity.InstrumentBaseline{}))
		assert.Equal(t, "degenerate-window", rules[0].Name)
	}
}
