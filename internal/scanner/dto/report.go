package dto

import (
	"strings"
	"time"

	"stock-sniper/internal/entity"
)

// ReportRow is the viewer representation of one report entry.
type ReportRow struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	DiffFromLowPct *float64 `json:"diff_from_low_pct"`
	Tier           string   `json:"tier"`
	Headline       string   `json:"headline"`
	Remark         string   `json:"remark"`
	SentimentScore int      `json:"sentiment_score"`
	Keywords       []string `json:"keywords"`
}

// ReportResponse is the body of the report endpoints.
type ReportResponse struct {
	ScanID      string      `json:"scan_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Total       int         `json:"total"`
	Items       []ReportRow `json:"items"`
}

// NewReportResponse converts a report into its viewer form.
func NewReportResponse(r entity.Report) ReportResponse {
	rows := make([]ReportRow, 0, len(r.Items))
	for _, it := range r.Items {
		keywords := it.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		rows = append(rows, ReportRow{
			Code:           it.Code,
			Name:           it.Name,
			Price:          it.Price,
			DiffFromLowPct: it.DiffFromLowPct,
			Tier:           string(it.Tier),
			Headline:       it.Headline,
			Remark:         it.Remark,
			SentimentScore: it.SentimentScore,
			Keywords:       keywords,
		})
	}
	return ReportResponse{
		ScanID:      r.ScanID,
		GeneratedAt: r.GeneratedAt,
		Total:       len(rows),
		Items:       rows,
	}
}

// ReportFilter narrows a report the way the dashboard sidebar does.
type ReportFilter struct {
	Tiers    []entity.Tier
	MinPrice *float64
	MaxPrice *float64
	MinDiff  *float64
	MaxDiff  *float64
	Keyword  string
}

// Apply returns a new report holding only the matching items, order preserved.
func (f ReportFilter) Apply(r entity.Report) entity.Report {
	items := make([]entity.ClassificationResult, 0, len(r.Items))
	for _, it := range r.Items {
		if f.match(it) {
			items = append(items, it)
		}
	}
	r.Items = items
	r.Total = len(items)
	return r
}

func (f ReportFilter) match(it entity.ClassificationResult) bool {
	if len(f.Tiers) > 0 {
		found := false
		for _, t := range f.Tiers {
			if t == it.Tier {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice != nil && it.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && it.Price > *f.MaxPrice {
		return false
	}
	if f.MinDiff != nil || f.MaxDiff != nil {
		if it.DiffFromLowPct == nil {
			return false
		}
		if f.MinDiff != nil && *it.DiffFromLowPct < *f.MinDiff {
			return false
		}
		if f.MaxDiff != nil && *it.DiffFromLowPct > *f.MaxDiff {
			return false
		}
	}
	if f.Keyword != "" {
		if !strings.Contains(it.Remark, f.Keyword) && !strings.Contains(it.Headline, f.Keyword) {
			return false
		}
	}
	return true
}

// BaselineResponse is the body of the baseline listing endpoint.
type BaselineResponse struct {
	Total     int                         `json:"total"`
	UpdatedAt *time.Time                  `json:"updated_at"`
	Items     []entity.InstrumentBaseline `json:"items"`
}

// JobTriggerResponse is returned when a job is run on demand.
type JobTriggerResponse struct {
	Job    string `json:"job"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReportSummaryResponse is one row of the report history listing.
type ReportSummaryResponse struct {
	ScanID         string    `json:"scan_id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	UniverseSize   int       `json:"universe_size"`
	QuotesReceived int       `json:"quotes_received"`
	FailedBatches  int       `json:"failed_batches"`
	Total          int       `json:"total"`
	LegacyMode     bool      `json:"legacy_mode"`
}

// NewReportSummaryResponse drops the items of a persisted scan.
func NewReportSummaryResponse(s entity.ScanReport) ReportSummaryResponse {
	return ReportSummaryResponse{
		ScanID:         s.ScanID,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
		UniverseSize:   s.UniverseSize,
		QuotesReceived: s.QuotesReceived,
		FailedBatches:  s.FailedBatches,
		Total:          s.Total,
		LegacyMode:     s.LegacyMode,
	}
}
