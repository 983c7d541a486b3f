package repository

import (
	"context"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
)

// HistorySource provides ordered daily closes for one instrument.
type HistorySource interface {
	GetDailyCloses(ctx context.Context, code string, from time.Time) ([]dto.DailyClose, error)
}

// QuoteSource fetches live quotes for a batch of codes in a single request.
type QuoteSource interface {
	FetchQuotes(ctx context.Context, codes []string) (map[string]dto.QuoteResult, error)
}

// HeadlineSource returns recent headline titles for a query, newest first.
type HeadlineSource interface {
	LatestHeadlines(ctx context.Context, query string, limit int) ([]string, error)
}

// ListingSource enumerates listed instruments.
type ListingSource interface {
	ListInstruments(ctx context.Context) ([]entity.Instrument, error)
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
