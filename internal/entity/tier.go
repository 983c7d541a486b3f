package entity

// Tier is the market-position label assigned to an instrument by the classifier.
type Tier string

const (
	TierBreakoutHigh     Tier = "BreakoutHigh"
	TierApproachingHigh  Tier = "ApproachingHigh"
	TierDeepLow          Tier = "DeepLow"
	TierBottomReversal   Tier = "BottomReversal"
	TierLowConsolidation Tier = "LowConsolidation"
	TierBullTrend        Tier = "BullTrend"
	TierPullbackFromHigh Tier = "PullbackFromHigh"
	TierRangeBound       Tier = "RangeBound"

	// TierGeneral is only produced by the legacy two-tier classifier.
	TierGeneral Tier = "General"
)

// tierPriority ranks tiers by how actionable the signal is; lower ranks sort first.
var tierPriority = map[Tier]int{
	TierBreakoutHigh:     0,
	TierApproachingHigh:  1,
	TierBottomReversal:   2,
	TierDeepLow:          3,
	TierBullTrend:        4,
	TierPullbackFromHigh: 5,
	TierLowConsolidation: 6,
	TierRangeBound:       7,
	TierGeneral:          8,
}

// AllTiers lists every tier in priority order.
func AllTiers() []Tier {
	return []Tier{
		TierBreakoutHigh,
		TierApproachingHigh,
		TierBottomReversal,
		TierDeepLow,
		TierBullTrend,
		TierPullbackFromHigh,
		TierLowConsolidation,
		TierRangeBound,
		TierGeneral,
	}
}

// Priority returns the sort rank of t. Unknown tiers sort last.
func (t Tier) Priority() int {
	if p, ok := tierPriority[t]; ok {
		return p
	}
	return len(tierPriority)
}

// Valid reports whether t is one of the fixed labels.
func (t Tier) Valid() bool {
	_, ok := tierPriority[t]
	return ok
}

// Neutral reports whether t carries no signal and is hidden from reports by default.
func (t Tier) Neutral() bool {
	return t == TierRangeBound || t == TierGeneral
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a label to a Tier.
func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	return t, t.Valid()
}
