package dto

import "stock-sniper/internal/entity"

// QuoteOutcome records what happened to one code within a successful batch.
type QuoteOutcome string

const (
	QuoteOK          QuoteOutcome = "OK"
	QuoteNotReported QuoteOutcome = "NOT_REPORTED"
	QuoteNoTrade     QuoteOutcome = "NO_TRADE"
	QuoteUnparseable QuoteOutcome = "UNPARSEABLE"
)

// BatchOutcome records the result of one bulk quote request.
type BatchOutcome struct {
	Index       int                     `json:"index"`
	Codes       []string                `json:"codes"`
	Status      string                  `json:"status"`
	FailureKind FailureKind             `json:"failure_kind,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Quotes      int                     `json:"quotes"`
	Outcomes    map[string]QuoteOutcome `json:"outcomes,omitempty"`
}

// PollResult is everything gathered by one poll pass.
type PollResult struct {
	Quotes  []entity.Quote `json:"quotes"`
	Batches []BatchOutcome `json:"batches"`
}

// FailedBatches counts batches that yielded no quotes because the request failed.
func (p PollResult) FailedBatches() int {
	n := 0
	for _, b := range p.Batches {
		if b.FailureKind != FailureNone {
			n++
		}
	}
	return n
}

// AllFailed reports whether at least one batch ran and none succeeded.
func (p PollResult) AllFailed() bool {
	return len(p.Batches) > 0 && p.FailedBatches() == len(p.Batches)
}

// RebuildOutcome records the result of one instrument in a baseline rebuild.
type RebuildOutcome struct {
	Code     string `json:"code"`
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Error    string `json:"error,omitempty"`
}

// RebuildSummary is the job output of a baseline rebuild.
type RebuildSummary struct {
	Requested int              `json:"requested"`
	Built     int              `json:"built"`
	Skipped   int              `json:"skipped"`
	Failed    int              `json:"failed"`
	Duration  string           `json:"duration"`
	Outcomes  []RebuildOutcome `json:"outcomes"`
}

// ScanSummary is the job output of a scan pass.
type ScanSummary struct {
	ScanID        string `json:"scan_id"`
	Universe      int    `json:"universe"`
	Quotes        int    `json:"quotes"`
	Classified    int    `json:"classified"`
	Enriched      int    `json:"enriched"`
	FailedBatches int    `json:"failed_batches"`
	Total         int    `json:"total"`
	Duration      string `json:"duration"`
}
