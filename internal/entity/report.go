package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Report is the ordered output of one scan pass handed to the viewer.
type Report struct {
	ScanID      string                 `json:"scan_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Total       int                    `json:"total"`
	Items       []ClassificationResult `json:"items"`
}

// ScanReport is the persisted header of a scan pass.
type ScanReport struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	ScanID         string           `gorm:"uniqueIndex;not null" json:"scan_id"`
	StartedAt      time.Time        `gorm:"not null" json:"started_at"`
	FinishedAt     time.Time        `gorm:"not null" json:"finished_at"`
	UniverseSize   int              `gorm:"not null" json:"universe_size"`
	QuotesReceived int              `gorm:"not null" json:"quotes_received"`
	FailedBatches  int              `gorm:"not null" json:"failed_batches"`
	Total          int              `gorm:"not null" json:"total"`
	LegacyMode     bool             `gorm:"not null" json:"legacy_mode"`
	Batches        datatypes.JSON   `gorm:"type:jsonb" json:"batches"`
	Items          []ScanReportItem `gorm:"foreignKey:ScanReportID" json:"items"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (ScanReport) TableName() string {
	return "scan_reports"
}

// ScanReportItem is one persisted report row.
type ScanReportItem struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ScanReportID   uint           `gorm:"index;not null" json:"scan_report_id"`
	Rank           int            `gorm:"not null" json:"rank"`
	Code           string         `gorm:"not null" json:"code"`
	Name           string         `gorm:"not null" json:"name"`
	Price          float64        `gorm:"not null" json:"price"`
	DiffFromLowPct *float64       `json:"diff_from_low_pct"`
	Tier           string         `gorm:"not null" json:"tier"`
	Headline       string         `json:"headline"`
	Remark         string         `json:"remark"`
	SentimentScore int            `json:"sentiment_score"`
	Keywords       pq.StringArray `gorm:"type:text[]" json:"keywords"`
}

func (ScanReportItem) TableName() string {
	return "scan_report_items"
}

// Result converts a persisted row back into its report form.
func (i ScanReportItem) Result() ClassificationResult {
	return ClassificationResult{
		Code:           i.Code,
		Name:           i.Name,
		Price:          i.Price,
		DiffFromLowPct: i.DiffFromLowPct,
		Tier:           Tier(i.Tier),
		Headline:       i.Headline,
		Remark:         i.Remark,
		SentimentScore: i.SentimentScore,
		Keywords:       []string(i.Keywords),
	}
}

// ToReport rebuilds the viewer form from a persisted scan.
func (s ScanReport) ToReport() Report {
	items := make([]ClassificationResult, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, it.Result())
	}
	return Report{
		ScanID:      s.ScanID,
		GeneratedAt: s.FinishedAt,
		Total:       len(items),
		Items:       items,
	}
}
