package config

import (
	"fmt"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/pkg/config"
)

// Scanner holds configuration of one scan pass.
type Scanner struct {
	BatchSize          int           `mapstructure:"batch_size"`
	InterBatchDelayMin time.Duration `mapstructure:"inter_batch_delay_min"`
	InterBatchDelayMax time.Duration `mapstructure:"inter_batch_delay_max"`
	Cooldown           time.Duration `mapstructure:"cooldown"`
	FailureDelay       time.Duration `mapstructure:"failure_delay"`
	IncludeRangeBound  bool          `mapstructure:"include_range_bound"`
	LegacyMode         bool          `mapstructure:"legacy_mode"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

// Baseline holds configuration of the baseline rebuild.
type Baseline struct {
	WindowSize      int           `mapstructure:"window_size"`
	MaShort         int           `mapstructure:"ma_short"`
	MaLong          int           `mapstructure:"ma_long"`
	StartCode       string        `mapstructure:"start_code"`
	MaxInstruments  int           `mapstructure:"max_instruments"`
	Codes           []string      `mapstructure:"codes"`
	LookbackDays    int           `mapstructure:"lookback_days"`
	RequestDelayMin time.Duration `mapstructure:"request_delay_min"`
	RequestDelayMax time.Duration `mapstructure:"request_delay_max"`
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	LoadOnStart     bool          `mapstructure:"load_on_start"`
}

// Enrichment holds configuration of the headline sentiment scorer.
type Enrichment struct {
	Tiers            []string `mapstructure:"tiers"`
	PositiveKeywords []string `mapstructure:"positive_keywords"`
	NegativeKeywords []string `mapstructure:"negative_keywords"`
	HeadlineLimit    int      `mapstructure:"headline_limit"`
}

// TWSE holds endpoints of the exchange data providers.
type TWSE struct {
	QuoteURL            string        `mapstructure:"quote_url"`
	HistoryURL          string        `mapstructure:"history_url"`
	ListingURL          string        `mapstructure:"listing_url"`
	QuoteTimeout        time.Duration `mapstructure:"quote_timeout"`
	HistoryTimeout      time.Duration `mapstructure:"history_timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// GoogleNews holds configuration of the headline RSS feed.
type GoogleNews struct {
	BaseURL             string        `mapstructure:"base_url"`
	Language            string        `mapstructure:"language"`
	Region              string        `mapstructure:"region"`
	Edition             string        `mapstructure:"edition"`
	Timeout             time.Duration `mapstructure:"timeout"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Schedule holds cron specs for the periodic jobs. Empty specs disable the job.
type Schedule struct {
	ScanCron        string        `mapstructure:"scan_cron"`
	RebuildCron     string        `mapstructure:"rebuild_cron"`
	PollingInterval time.Duration `mapstructure:"polling_interval"`
}

// Telegram holds configuration for the report digest notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
	MaxItems int    `mapstructure:"max_items"`
}

// Enabled reports whether a digest should be sent after each scan.
func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

// Report holds configuration of report publication.
type Report struct {
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	HistoryLimit int           `mapstructure:"history_limit"`
}

// Config holds the full configuration for the sniper service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Scanner    Scanner         `mapstructure:"scanner"`
	Baseline   Baseline        `mapstructure:"baseline"`
	Enrichment Enrichment      `mapstructure:"enrichment"`
	TWSE       TWSE            `mapstructure:"twse"`
	GoogleNews GoogleNews      `mapstructure:"google_news"`
	Schedule   Schedule        `mapstructure:"schedule"`
	Telegram   Telegram        `mapstructure:"telegram"`
	Report     Report          `mapstructure:"report"`
}

var (
	DefaultPositiveKeywords = []string{"營收", "創高", "大增", "買超", "旺季", "成長", "強勢", "填息", "獲利", "漲停", "法說"}
	DefaultNegativeKeywords = []string{"虧損", "衰退", "賣超", "下修", "重挫", "跌停", "疲弱", "利空", "斬腰"}
	DefaultEnrichmentTiers  = []string{
		string(entity.TierBreakoutHigh),
		string(entity.TierApproachingHigh),
		string(entity.TierBottomReversal),
	}
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.App.Name == "" {
		c.App.Name = "stock-sniper"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Redis.StreamMaxLen == 0 {
		c.Redis.StreamMaxLen = 1000
	}

	s := &c.Scanner
	if s.BatchSize <= 0 {
		s.BatchSize = 8
	}
	if s.InterBatchDelayMin <= 0 {
		s.InterBatchDelayMin = 1500 * time.Millisecond
	}
	if s.InterBatchDelayMax < s.InterBatchDelayMin {
		s.InterBatchDelayMax = 6 * time.Second
		if s.InterBatchDelayMax < s.InterBatchDelayMin {
			s.InterBatchDelayMax = s.InterBatchDelayMin
		}
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 60 * time.Second
	}
	if s.FailureDelay <= 0 {
		s.FailureDelay = 3 * time.Second
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Minute
	}

	b := &c.Baseline
	if b.WindowSize <= 0 {
		b.WindowSize = 200
	}
	if b.MaShort <= 0 {
		b.MaShort = 5
	}
	if b.MaLong <= 0 {
		b.MaLong = 20
	}
	if b.MaShort > b.WindowSize {
		b.MaShort = b.WindowSize
	}
	if b.MaLong > b.WindowSize {
		b.MaLong = b.WindowSize
	}
	if b.StartCode == "" {
		b.StartCode = "1101"
	}
	if b.LookbackDays <= 0 {
		b.LookbackDays = 395
	}
	if b.RequestDelayMin <= 0 {
		b.RequestDelayMin = 500 * time.Millisecond
	}
	if b.RequestDelayMax < b.RequestDelayMin {
		b.RequestDelayMax = time.Second
		if b.RequestDelayMax < b.RequestDelayMin {
			b.RequestDelayMax = b.RequestDelayMin
		}
	}
	if b.MaxConcurrent <= 0 {
		b.MaxConcurrent = 1
	}
	if b.Timeout <= 0 {
		b.Timeout = 6 * time.Hour
	}

	e := &c.Enrichment
	if len(e.Tiers) == 0 {
		e.Tiers = append([]string(nil), DefaultEnrichmentTiers...)
	}
	if len(e.PositiveKeywords) == 0 {
		e.PositiveKeywords = append([]string(nil), DefaultPositiveKeywords...)
	}
	if len(e.NegativeKeywords) == 0 {
		e.NegativeKeywords = append([]string(nil), DefaultNegativeKeywords...)
	}
	if e.HeadlineLimit <= 0 {
		e.HeadlineLimit = 3
	}

	t := &c.TWSE
	if t.QuoteURL == "" {
		t.QuoteURL = "https://mis.twse.com.tw/stock/api/getStockInfo.jsp"
	}
	if t.HistoryURL == "" {
		t.HistoryURL = "https://www.twse.com.tw/exchangeReport/STOCK_DAY"
	}
	if t.ListingURL == "" {
		t.ListingURL = "https://isin.twse.com.tw/isin/C_public.jsp?strMode=2"
	}
	if t.QuoteTimeout <= 0 {
		t.QuoteTimeout = 10 * time.Second
	}
	if t.HistoryTimeout <= 0 {
		t.HistoryTimeout = 10 * time.Second
	}
	if t.MaxRequestPerMinute <= 0 {
		t.MaxRequestPerMinute = 60
	}

	g := &c.GoogleNews
	if g.BaseURL == "" {
		g.BaseURL = "https://news.google.com/rss/search"
	}
	if g.Language == "" {
		g.Language = "zh-TW"
	}
	if g.Region == "" {
		g.Region = "TW"
	}
	if g.Edition == "" {
		g.Edition = "TW:zh-Hant"
	}
	if g.Timeout <= 0 {
		g.Timeout = 3 * time.Second
	}
	if g.CacheTTL <= 0 {
		g.CacheTTL = 10 * time.Minute
	}
	if g.MaxRequestPerMinute <= 0 {
		g.MaxRequestPerMinute = 30
	}

	if c.Schedule.PollingInterval <= 0 {
		c.Schedule.PollingInterval = 10 * time.Second
	}
	if c.Telegram.MaxItems <= 0 {
		c.Telegram.MaxItems = 30
	}
	if c.Report.CacheTTL <= 0 {
		c.Report.CacheTTL = 24 * time.Hour
	}
	if c.Report.HistoryLimit <= 0 {
		c.Report.HistoryLimit = 20
	}
}

// EnrichmentTiers returns the configured eligible tiers, rejecting unknown labels.
func (c *Config) EnrichmentTiers() ([]entity.Tier, error) {
	tiers := make([]entity.Tier, 0, len(c.Enrichment.Tiers))
	for _, s := range c.Enrichment.Tiers {
		t, ok := entity.ParseTier(s)
		if !ok {
			return nil, fmt.Errorf("unknown enrichment tier %q", s)
		}
		tiers = append(tiers, t)
	}
	return tiers, nil
}

// Load loads the sniper configuration from the given path and applies defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if _, err := cfg.EnrichmentTiers(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
