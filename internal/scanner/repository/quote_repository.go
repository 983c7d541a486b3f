package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"

	"golang.org/x/time/rate"
)

const misSuccessCode = "0000"

type quoteRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewQuoteRepository creates a QuoteSource backed by the TWSE MIS realtime endpoint.
func NewQuoteRepository(cfg *config.Config, log *logger.Logger) QuoteSource {
	perRequest := time.Minute / time.Duration(cfg.TWSE.MaxRequestPerMinute)
	return &quoteRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.TWSE.QuoteTimeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
	}
}

// FetchQuotes issues one bulk request for codes and keys the answer by code.
// Transport resets surface as dto.ErrProviderConnection; everything else that
// prevents a usable answer surfaces as dto.ErrProviderTransient or dto.ErrEmptyResponse.
func (r *quoteRepository) FetchQuotes(ctx context.Context, codes []string) (map[string]dto.QuoteResult, error) {
	if len(codes) == 0 {
		return map[string]dto.QuoteResult{}, nil
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	channels := make([]string, 0, len(codes))
	for _, code := range codes {
		channels = append(channels, "tse_"+code+".tw")
	}
	q := url.Values{}
	q.Set("ex_ch", strings.Join(channels, "|"))
	q.Set("json", "1")
	q.Set("delay", "0")
	q.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10))
	endpoint := r.cfg.TWSE.QuoteURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if dto.ClassifyProviderError(err) == dto.FailureConnection {
			return nil, fmt.Errorf("%w: %v", dto.ErrProviderConnection, err)
		}
		return nil, fmt.Errorf("%w: %w", dto.ErrProviderTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", dto.ErrProviderTransient, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if dto.ClassifyProviderError(err) == dto.FailureConnection {
			return nil, fmt.Errorf("%w: %v", dto.ErrProviderConnection, err)
		}
		return nil, fmt.Errorf("%w: failed to read body: %w", dto.ErrProviderTransient, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, dto.ErrEmptyResponse
	}

	var payload dto.MISResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", dto.ErrProviderTransient, err)
	}
	if payload.RtCode != "" && payload.RtCode != misSuccessCode {
		return nil, fmt.Errorf("%w: rtcode %s %s", dto.ErrProviderTransient, payload.RtCode, payload.RtMessage)
	}
	if len(payload.MsgArray) == 0 {
		return nil, dto.ErrEmptyResponse
	}

	results := make(map[string]dto.QuoteResult, len(payload.MsgArray))
	for _, m := range payload.MsgArray {
		if m.Code == "" {
			continue
		}
		result := dto.QuoteResult{Success: true, Name: m.Name}
		if price := strings.TrimSpace(m.Price); price != "" {
			result.Price = &price
		}
		results[m.Code] = result
	}

	r.log.DebugContext(ctx, "Fetched quotes",
		logger.IntField("requested", len(codes)),
		logger.IntField("received", len(results)),
	)
	return results, nil
}
