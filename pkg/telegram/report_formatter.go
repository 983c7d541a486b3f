package telegram

import (
	"fmt"
	"strings"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLen stays just under the Telegram limit of 4096 characters.
const MaxMessageLen = 4090

var tierIcons = map[entity.Tier]string{
	entity.TierBreakoutHigh:     "🚀",
	entity.TierApproachingHigh:  "📈",
	entity.TierBottomReversal:   "🔄",
	entity.TierDeepLow:          "🕳",
	entity.TierBullTrend:        "🐂",
	entity.TierPullbackFromHigh: "↘️",
	entity.TierLowConsolidation: "➖",
	entity.TierRangeBound:       "↔️",
	entity.TierGeneral:          "•",
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatDiff(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *p)
}

// FormatReportForTelegram renders a report as one or more Markdown messages, each
// within MaxMessageLen. At most maxItems rows are listed; maxItems <= 0 lists all.
func FormatReportForTelegram(report entity.Report, summary dto.ScanSummary, maxItems int) []string {
	header := fmt.Sprintf("🎯 *TWSE Sniper Report* 🎯\n🕒 %s\n📊 Universe: %d | Quotes: %d | Signals: %d\n",
		utils.PrettyDate(report.GeneratedAt), summary.Universe, summary.Quotes, report.Total)
	if summary.FailedBatches > 0 {
		header += fmt.Sprintf("⚠️ Failed batches: %d\n", summary.FailedBatches)
	}
	header += "\n"

	if len(report.Items) == 0 {
		return []string{header + "_No signals in this scan._"}
	}

	items := report.Items
	omitted := 0
	if maxItems > 0 && len(items) > maxItems {
		omitted = len(items) - maxItems
		items = items[:maxItems]
	}

	var messages []string
	var current strings.Builder
	part := 1
	current.WriteString(header)

	lastTier := entity.Tier("")
	for _, it := range items {
		var entry strings.Builder
		if it.Tier != lastTier {
			entry.WriteString(fmt.Sprintf("%s *%s*\n", tierIcons[it.Tier], it.Tier))
			lastTier = it.Tier
		}
		entry.WriteString(fmt.Sprintf("`%s` %s  %.2f (%s)\n", it.Code, escape(it.Name), it.Price, formatDiff(it.DiffFromLowPct)))
		if it.Headline != "" {
			entry.WriteString(fmt.Sprintf("   📰 %s\n", escape(it.Headline)))
		}
		if it.Remark != "" && it.Remark != "-" {
			entry.WriteString(fmt.Sprintf("   💬 %s\n", escape(it.Remark)))
		}
		text := entry.String()

		if current.Len()+len(text) > MaxMessageLen {
			messages = append(messages, current.String())
			part++
			current.Reset()
			current.WriteString(fmt.Sprintf("---*TWSE Sniper Report Part %d*---\n\n", part))
			// Repeat the tier heading at the top of a continuation part.
			if !strings.HasPrefix(text, tierIcons[it.Tier]+" *") {
				current.WriteString(fmt.Sprintf("%s *%s*\n", tierIcons[it.Tier], it.Tier))
			}
		}
		current.WriteString(text)
	}
	if omitted > 0 {
		current.WriteString(fmt.Sprintf("\n_...and %d more_\n", omitted))
	}
	messages = append(messages, current.String())
	return messages
}

// FormatErrorAlertMessage renders an operator alert for a failed job.
func FormatErrorAlertMessage(summary dto.ScanSummary, errMsg string) string {
	return fmt.Sprintf("📛 [SCAN ALERT]\n🔧 scan `%s`\n⚠️ %s\n📄 Universe: %d | Failed batches: %d\n",
		summary.ScanID, escape(errMsg), summary.Universe, summary.FailedBatches)
}
