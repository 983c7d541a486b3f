package service

import (
	"stock-sniper/internal/entity"
	"stock-sniper/pkg/utils"
)

// Rule is one row of a classification table. Rules are evaluated in order and the first match wins.
type Rule struct {
	Name   string
	Match  func(price float64, b entity.InstrumentBaseline) bool
	Assign func(price float64, b entity.InstrumentBaseline) entity.Tier
}

func fixed(t entity.Tier) func(float64, entity.InstrumentBaseline) entity.Tier {
	return func(float64, entity.InstrumentBaseline) entity.Tier { return t }
}

func aboveShortMA(above, below entity.Tier) func(float64, entity.InstrumentBaseline) entity.Tier {
	return func(price float64, b entity.InstrumentBaseline) entity.Tier {
		if price > b.Ma5Ref {
			return above
		}
		return below
	}
}

// position is only evaluated after the degenerate guard, so high > low.
func position(price float64, b entity.InstrumentBaseline) float64 {
	return (price - b.Low200) / (b.High200 - b.Low200)
}

func degenerate(_ float64, b entity.InstrumentBaseline) bool {
	return b.Degenerate()
}

// SignalRules is the multi-tier classification table.
var SignalRules = []Rule{
	{Name: "degenerate-window", Match: degenerate, Assign: fixed(entity.TierRangeBound)},
	{
		Name:   "breakout",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return p >= b.High200 },
		Assign: fixed(entity.TierBreakoutHigh),
	},
	{
		Name:   "within-5pct-of-high",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return p >= b.High200*0.95 },
		Assign: fixed(entity.TierApproachingHigh),
	},
	{
		Name:   "within-5pct-of-low",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return p <= b.Low200*1.05 },
		Assign: fixed(entity.TierDeepLow),
	},
	{
		Name:   "within-15pct-of-low",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return p <= b.Low200*1.15 },
		Assign: aboveShortMA(entity.TierBottomReversal, entity.TierLowConsolidation),
	},
	{
		Name:   "upper-range",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return position(p, b) > 0.7 },
		Assign: aboveShortMA(entity.TierBullTrend, entity.TierPullbackFromHigh),
	},
	{
		// Rarely reached since the 15% band usually covers it, kept for wide ranges.
		Name:   "lower-range",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return position(p, b) < 0.3 },
		Assign: fixed(entity.TierLowConsolidation),
	},
	{
		Name:   "mid-range",
		Match:  func(float64, entity.InstrumentBaseline) bool { return true },
		Assign: fixed(entity.TierRangeBound),
	},
}

// LegacyRules is the two-signal table of the early scanner.
var LegacyRules = []Rule{
	{Name: "degenerate-window", Match: degenerate, Assign: fixed(entity.TierGeneral)},
	{
		Name:   "breakout",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return p >= b.High200 },
		Assign: fixed(entity.TierBreakoutHigh),
	},
	{
		Name:   "within-10pct-of-low",
		Match:  func(p float64, b entity.InstrumentBaseline) bool { return p <= b.Low200*1.10 },
		Assign: aboveShortMA(entity.TierBottomReversal, entity.TierLowConsolidation),
	},
	{
		Name:   "no-signal",
		Match:  func(float64, entity.InstrumentBaseline) bool { return true },
		Assign: fixed(entity.TierGeneral),
	},
}

// Classifier assigns a tier to a quote against its baseline.
type Classifier struct {
	rules  []Rule
	legacy bool
}

// NewClassifier builds a classifier over the multi-tier table, or the legacy table when legacy is set.
func NewClassifier(legacy bool) *Classifier {
	rules := SignalRules
	if legacy {
		rules = LegacyRules
	}
	return &Classifier{rules: rules, legacy: legacy}
}

// Legacy reports whether the legacy table is active.
func (c *Classifier) Legacy() bool {
	return c.legacy
}

// Tier evaluates the table. The final rule of each table always matches.
func (c *Classifier) Tier(price float64, b entity.InstrumentBaseline) entity.Tier {
	for _, r := range c.rules {
		if r.Match(price, b) {
			return r.Assign(price, b)
		}
	}
	return entity.TierRangeBound
}

// Classify builds the unenriched result for one instrument.
func (c *Classifier) Classify(price float64, b entity.InstrumentBaseline) entity.ClassificationResult {
	return entity.ClassificationResult{
		Code:           b.Code,
		Name:           b.Name,
		Price:          price,
		DiffFromLowPct: DiffFromLowPct(price, b.Low200),
		Tier:           c.Tier(price, b),
	}
}

// DiffFromLowPct is nil when low is not positive.
func DiffFromLowPct(price, low float64) *float64 {
	if low <= 0 {
		return nil
	}
	return utils.ToPointer((price - low) / low * 100)
}
