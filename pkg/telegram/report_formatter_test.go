package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(n int) entity.Report {
	items := make([]entity.ClassificationResult, 0, n)
	for i := 0; i < n; i++ {
		tier := entity.TierBreakoutHigh
		if i >= n/2 {
			tier = entity.TierDeepLow
		}
		items = append(items, entity.ClassificationResult{
			Code:           fmt.Sprintf("%04d", 1101+i),
			Name:           "測試_股",
			Price:          100 + float64(i),
			DiffFromLowPct: utils.ToPointer(12.5),
			Tier:           tier,
			Headline:       strings.Repeat("營收創高 ", 10),
			Remark:         "bullish (創高)",
		})
	}
	return entity.Report{ScanID: "scan-1", GeneratedAt: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC), Total: n, Items: items}
}

func TestFormatReportEmpty(t *testing.T) {
	msgs := FormatReportForTelegram(entity.Report{}, dto.ScanSummary{Universe: 900}, 30)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "No signals")
}

func TestFormatReportGroupsByTierAndEscapes(t *testing.T) {
	msgs := FormatReportForTelegram(sampleReport(4), dto.ScanSummary{Universe: 4, Quotes: 4}, 0)
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, strings.Count(msgs[0], string(entity.TierBreakoutHigh)))
	assert.Equal(t, 1, strings.Count(msgs[0], string(entity.TierDeepLow)))
	assert.Contains(t, msgs[0], `測試\_股`)
	assert.Contains(t, msgs[0], "+12.50%")
}

func TestFormatReportSplitsLongDigests(t *testing.T) {
	msgs := FormatReportForTelegram(sampleReport(200), dto.ScanSummary{}, 0)
	require.Greater(t, len(msgs), 1)
	for _, m := range msgs {
		assert.LessOrEqual(t, len(m), MaxMessageLen)
	}
	assert.Contains(t, msgs[1], "Part 2")
}

func TestFormatReportCapsItems(t *testing.T) {
	msgs := FormatReportForTelegram(sampleReport(10), dto.ScanSummary{}, 3)
	joined := strings.Join(msgs, "")
	assert.Contains(t, joined, "`1103`")
	assert.NotContains(t, joined, "`1104`")
	assert.Contains(t, joined, "and 7 more")
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendMessage(text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func TestReportNotifier(t *testing.T) {
	fake := &fakeNotifier{}
	n := NewReportNotifier(fake, logger.NewNop(), 30)

	require.NoError(t, n.NotifyReport(context.Background(), sampleReport(2), dto.ScanSummary{Universe: 2, Quotes: 2}))
	require.Len(t, fake.sent, 1)
	assert.Contains(t, fake.sent[0], "TWSE Sniper Report")

	fake.sent = nil
	require.NoError(t, n.NotifyReport(context.Background(), entity.Report{}, dto.ScanSummary{ScanID: "s", FailedBatches: 3}))
	require.Len(t, fake.sent, 1)
	assert.Contains(t, fake.sent[0], "SCAN ALERT")

	fake.err = errors.New("chat not found")
	assert.Error(t, n.NotifyReport(context.Background(), sampleReport(2), dto.ScanSummary{}))
}
