package service

import (
	"context"
	"fmt"
	"strings"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/metrics"
	"stock-sniper/internal/scanner/repository"
	"stock-sniper/pkg/logger"
)

const (
	HeadlineUnavailable = "headline unavailable"
	HeadlineNone        = "no recent news"

	RemarkSkipped     = "-"
	RemarkUnavailable = "N/A"
	RemarkFlat        = "flat"
	RemarkNeutral     = "neutral"
)

// Enricher annotates strong signals with a keyword sentiment score over recent headlines.
type Enricher struct {
	headlines repository.HeadlineSource
	log       *logger.Logger
	eligible  map[entity.Tier]bool
	positive  []string
	negative  []string
	limit     int
}

// NewEnricher creates an enricher for the given eligible tiers and keyword sets.
func NewEnricher(headlines repository.HeadlineSource, log *logger.Logger, tiers []entity.Tier, positive, negative []string, limit int) *Enricher {
	eligible := make(map[entity.Tier]bool, len(tiers))
	for _, t := range tiers {
		eligible[t] = true
	}
	if limit <= 0 {
		limit = 3
	}
	return &Enricher{
		headlines: headlines,
		log:       log,
		eligible:  eligible,
		positive:  positive,
		negative:  negative,
		limit:     limit,
	}
}

// Eligible reports whether results of tier t are worth a headline lookup.
func (e *Enricher) Eligible(t entity.Tier) bool {
	return e.eligible[t]
}

// Enrich returns a copy of r with headline, score and remark filled. It never fails and never changes the tier.
func (e *Enricher) Enrich(ctx context.Context, r entity.ClassificationResult) entity.ClassificationResult {
	if !e.Eligible(r.Tier) {
		r.Headline = ""
		r.SentimentScore = 0
		r.Keywords = nil
		r.Remark = RemarkSkipped
		return r
	}

	headlines, err := e.headlines.LatestHeadlines(ctx, r.Name, e.limit)
	if err != nil {
		e.log.WarnContext(ctx, "Headline lookup failed, leaving remark unavailable",
			logger.StringField("stock_code", r.Code),
			logger.ErrorField(err),
		)
		metrics.EnrichmentsTotal.WithLabelValues("unavailable").Inc()
		r.Headline = HeadlineUnavailable
		r.SentimentScore = 0
		r.Keywords = nil
		r.Remark = RemarkUnavailable
		return r
	}
	if len(headlines) == 0 {
		metrics.EnrichmentsTotal.WithLabelValues("no_news").Inc()
		r.Headline = HeadlineNone
		r.SentimentScore = 0
		r.Keywords = nil
		r.Remark = RemarkFlat
		return r
	}

	if len(headlines) > e.limit {
		headlines = headlines[:e.limit]
	}
	score, keywords := ScoreHeadlines(headlines, e.positive, e.negative)
	metrics.EnrichmentsTotal.WithLabelValues("scored").Inc()

	r.Headline = headlines[0]
	r.SentimentScore = score
	r.Keywords = keywords
	r.Remark = Remark(score, keywords)
	return r
}

// ScoreHeadlines adds one per positive keyword and subtracts one per negative keyword
// present in each headline. Matched keywords are returned once each, in discovery order.
func ScoreHeadlines(headlines, positive, negative []string) (int, []string) {
	score := 0
	var found []string
	seen := make(map[string]bool)
	note := func(k string) {
		if !seen[k] {
			seen[k] = true
			found = append(found, k)
		}
	}
	for _, h := range headlines {
		for _, k := range positive {
			if k != "" && strings.Contains(h, k) {
				score++
				note(k)
			}
		}
		for _, k := range negative {
			if k != "" && strings.Contains(h, k) {
				score--
				note(k)
			}
		}
	}
	return score, found
}

// Remark maps a net score to its label.
func Remark(score int, keywords []string) string {
	switch {
	case score >= 1:
		return fmt.Sprintf("bullish (%s)", strings.Join(keywords, ","))
	case score < 0:
		return fmt.Sprintf("bearish (%s)", strings.Join(keywords, ","))
	default:
		return RemarkNeutral
	}
}
