package service

import (
	"sort"

	"stock-sniper/internal/entity"
)

// Assemble filters neutral tiers unless includeRangeBound is set and orders by
// tier priority then code. The input slice is left untouched.
func Assemble(results []entity.ClassificationResult, includeRangeBound bool) entity.Report {
	items := make([]entity.ClassificationResult, 0, len(results))
	for _, r := range results {
		if r.Tier.Neutral() && !includeRangeBound {
			continue
		}
		items = append(items, r)
	}

	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Tier.Priority(), items[j].Tier.Priority()
		if pi != pj {
			return pi < pj
		}
		return items[i].Code < items[j].Code
	})

	return entity.Report{
		Total: len(items),
		Items: items,
	}
}
