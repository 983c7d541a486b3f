package entity

// ClassificationResult is the classified (and possibly enriched) view of one instrument.
type ClassificationResult struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	DiffFromLowPct *float64 `json:"diff_from_low_pct"`
	Tier           Tier     `json:"tier"`
	Headline       string   `json:"headline"`
	Remark         string   `json:"remark"`
	SentimentScore int      `json:"sentiment_score"`
	Keywords       []string `json:"keywords,omitempty"`
}
