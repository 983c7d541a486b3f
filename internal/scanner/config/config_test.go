package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"stock-sniper/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8, cfg.Scanner.BatchSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scanner.InterBatchDelayMin)
	assert.Equal(t, 6*time.Second, cfg.Scanner.InterBatchDelayMax)
	assert.Equal(t, 60*time.Second, cfg.Scanner.Cooldown)
	assert.Equal(t, 3*time.Second, cfg.Scanner.FailureDelay)
	assert.False(t, cfg.Scanner.IncludeRangeBound)

	assert.Equal(t, 200, cfg.Baseline.WindowSize)
	assert.Equal(t, 5, cfg.Baseline.MaShort)
	assert.Equal(t, 20, cfg.Baseline.MaLong)
	assert.Equal(t, "1101", cfg.Baseline.StartCode)
	assert.Equal(t, 395, cfg.Baseline.LookbackDays)
	assert.Equal(t, 1, cfg.Baseline.MaxConcurrent)

	assert.Equal(t, 3*time.Second, cfg.GoogleNews.Timeout)
	assert.Equal(t, 3, cfg.Enrichment.HeadlineLimit)
	assert.Contains(t, cfg.Enrichment.PositiveKeywords, "營收")
	assert.Contains(t, cfg.Enrichment.NegativeKeywords, "虧損")

	tiers, err := cfg.EnrichmentTiers()
	require.NoError(t, err)
	assert.Equal(t, []entity.Tier{entity.TierBreakoutHigh, entity.TierApproachingHigh, entity.TierBottomReversal}, tiers)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Scanner:  Scanner{BatchSize: 5, InterBatchDelayMin: 3 * time.Second, InterBatchDelayMax: 2 * time.Second},
		Baseline: Baseline{WindowSize: 10, MaLong: 20},
	}
	cfg.Normalize()

	assert.Equal(t, 5, cfg.Scanner.BatchSize)
	assert.Equal(t, 3*time.Second, cfg.Scanner.InterBatchDelayMin)
	assert.Equal(t, 6*time.Second, cfg.Scanner.InterBatchDelayMax)
	assert.Equal(t, 10, cfg.Baseline.MaLong)
}

func TestEnrichmentTiersRejectsUnknownLabel(t *testing.T) {
	cfg := Default()
	cfg.Enrichment.Tiers = []string{"BreakoutHigh", "Moonshot"}
	_, err := cfg.EnrichmentTiers()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
scanner:
  batch_size: 5
  cooldown: 90s
  include_range_bound: true
baseline:
  codes: ["2330", "2603"]
enrichment:
  tiers: ["BreakoutHigh"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Scanner.BatchSize)
	assert.Equal(t, 90*time.Second, cfg.Scanner.Cooldown)
	assert.True(t, cfg.Scanner.IncludeRangeBound)
	assert.Equal(t, []string{"2330", "2603"}, cfg.Baseline.Codes)
	assert.Equal(t, []string{"BreakoutHigh"}, cfg.Enrichment.Tiers)
	assert.Equal(t, 200, cfg.Baseline.WindowSize)
}
