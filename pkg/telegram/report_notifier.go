package telegram

import (
	"context"
	"fmt"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"
)

// ReportNotifier sends each finished report as a chat digest.
type ReportNotifier struct {
	notifier Notifier
	log      *logger.Logger
	maxItems int
}

// NewReportNotifier wraps a Notifier. maxItems caps the rows per digest.
func NewReportNotifier(notifier Notifier, log *logger.Logger, maxItems int) *ReportNotifier {
	return &ReportNotifier{notifier: notifier, log: log, maxItems: maxItems}
}

// NotifyReport sends every part of the digest, stopping at the first failure.
// A scan that lost every batch gets an alert instead of an empty digest.
func (n *ReportNotifier) NotifyReport(ctx context.Context, report entity.Report, summary dto.ScanSummary) error {
	var messages []string
	if summary.Quotes == 0 && summary.FailedBatches > 0 {
		messages = []string{FormatErrorAlertMessage(summary, "quote source unreachable for every batch")}
	} else {
		messages = FormatReportForTelegram(report, summary, n.maxItems)
	}

	for i, msg := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.notifier.SendMessage(msg); err != nil {
			return fmt.Errorf("failed to send digest part %d/%d: %w", i+1, len(messages), err)
		}
	}
	n.log.InfoContext(ctx, "Report digest sent", logger.IntField("parts", len(messages)), logger.IntField("items", report.Total))
	return nil
}
