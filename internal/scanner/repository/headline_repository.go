package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"

	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type headlineRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	parser         *gofeed.Parser
	inmemoryCache  *cache.Cache
	requestLimiter *rate.Limiter
}

// NewHeadlineRepository creates a HeadlineSource backed by the Google News RSS search feed.
func NewHeadlineRepository(cfg *config.Config, log *logger.Logger) HeadlineSource {
	perRequest := time.Minute / time.Duration(cfg.GoogleNews.MaxRequestPerMinute)
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: cfg.GoogleNews.Timeout}
	parser.UserAgent = userAgent
	return &headlineRepository{
		cfg:            cfg,
		log:            log,
		parser:         parser,
		inmemoryCache:  cache.New(cfg.GoogleNews.CacheTTL, 2*cfg.GoogleNews.CacheTTL),
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
	}
}

// LatestHeadlines returns up to limit titles, newest first. Any failure wraps dto.ErrEnrichmentUnavailable.
func (r *headlineRepository) LatestHeadlines(ctx context.Context, query string, limit int) ([]string, error) {
	cacheKey := query + "|" + strconv.Itoa(limit)
	if cached, ok := r.inmemoryCache.Get(cacheKey); ok {
		return cached.([]string), nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.GoogleNews.Timeout)
	defer cancel()

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrEnrichmentUnavailable, err)
	}

	feed, err := r.parser.ParseURLWithContext(r.feedURL(query), ctx)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to parse headline feed", logger.ErrorField(err), logger.StringField("query", query))
		return nil, fmt.Errorf("%w: %v", dto.ErrEnrichmentUnavailable, err)
	}

	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PublishedParsed == nil {
			return false
		}
		if items[j].PublishedParsed == nil {
			return true
		}
		return items[i].PublishedParsed.After(*items[j].PublishedParsed)
	})

	titles := make([]string, 0, limit)
	for _, item := range items {
		if len(titles) >= limit {
			break
		}
		title := utils.SafeText(item.Title)
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}

	r.inmemoryCache.SetDefault(cacheKey, titles)
	return titles, nil
}

func (r *headlineRepository) feedURL(query string) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", r.cfg.GoogleNews.Language)
	q.Set("gl", r.cfg.GoogleNews.Region)
	q.Set("ceid", r.cfg.GoogleNews.Edition)
	return r.cfg.GoogleNews.BaseURL + "?" + q.Encode()
}
