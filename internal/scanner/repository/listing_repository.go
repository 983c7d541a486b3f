package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// ideographicSpace separates code and name in the first column of the ISIN table.
const ideographicSpace = "　"

type listingRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewListingRepository creates a ListingSource backed by the TWSE ISIN listing page.
func NewListingRepository(cfg *config.Config, log *logger.Logger) ListingSource {
	return &listingRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListInstruments returns every (code, name) pair on the listing page, ordered by code.
func (r *listingRepository) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.TWSE.ListingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing request returned status %d", resp.StatusCode)
	}

	reader := transform.NewReader(resp.Body, traditionalchinese.Big5.NewDecoder())
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing html: %w", err)
	}

	seen := make(map[string]bool)
	var instruments []entity.Instrument
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cell := strings.TrimSpace(row.Find("td").First().Text())
		code, name, ok := strings.Cut(cell, ideographicSpace)
		if !ok {
			return
		}
		code = strings.TrimSpace(code)
		name = strings.TrimSpace(name)
		if code == "" || name == "" || seen[code] {
			return
		}
		seen[code] = true
		instruments = append(instruments, entity.Instrument{Code: code, Name: name})
	})

	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].Code < instruments[j].Code
	})

	r.log.InfoContext(ctx, "Fetched instrument listing", logger.IntField("instruments", len(instruments)))
	return instruments, nil
}
