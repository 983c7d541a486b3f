package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"

	"golang.org/x/time/rate"
)

type historyRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewHistoryRepository creates a HistorySource backed by the TWSE STOCK_DAY monthly report.
func NewHistoryRepository(cfg *config.Config, log *logger.Logger) HistorySource {
	perRequest := time.Minute / time.Duration(cfg.TWSE.MaxRequestPerMinute)
	return &historyRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.TWSE.HistoryTimeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
	}
}

// GetDailyCloses fetches every month from `from` to today and returns sessions on or after `from`, oldest first.
func (r *historyRepository) GetDailyCloses(ctx context.Context, code string, from time.Time) ([]dto.DailyClose, error) {
	loc := utils.GetTaipeiTimeLocation()
	from = from.In(loc)
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)

	var closes []dto.DailyClose
	for _, month := range utils.MonthsBetween(from, utils.TimeNowTaipei()) {
		rows, err := r.fetchMonth(ctx, code, month)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			dc, ok := dto.ParseStockDayRow(row, loc)
			if !ok || dc.Date.Before(fromDay) {
				continue
			}
			closes = append(closes, dc)
		}
	}

	sort.SliceStable(closes, func(i, j int) bool {
		return closes[i].Date.Before(closes[j].Date)
	})
	return closes, nil
}

func (r *historyRepository) fetchMonth(ctx context.Context, code string, month time.Time) ([][]string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	q := url.Values{}
	q.Set("response", "json")
	q.Set("date", month.Format("20060102"))
	q.Set("stockNo", code)
	endpoint := r.cfg.TWSE.HistoryURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create history request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s %s: %w", code, month.Format("2006-01"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history request for %s returned status %d", code, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read history response: %w", err)
	}

	var report dto.StockDayResponse
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode history response for %s: %w", code, err)
	}

	// Months before listing or without sessions come back with a non-OK stat.
	if !report.OK() {
		r.log.DebugContext(ctx, "No history rows for month",
			logger.StringField("stock_code", code),
			logger.StringField("month", month.Format("2006-01")),
			logger.StringField("stat", report.Stat),
		)
		return nil, nil
	}
	return report.Data, nil
}
