package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sniper"

var (
	QuoteBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "quote_batches_total", Help: "Quote batches polled, by status and failure kind"},
		[]string{"status", "failure_kind"},
	)
	QuoteOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "quote_outcomes_total", Help: "Per-instrument quote outcomes within successful batches"},
		[]string{"outcome"},
	)
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "classifications_total", Help: "Instruments classified, by tier"},
		[]string{"tier"},
	)
	EnrichmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "enrichments_total", Help: "Headline enrichments, by result"},
		[]string{"result"},
	)
	RebuildOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "baseline_rebuild_outcomes_total", Help: "Per-instrument baseline rebuild outcomes"},
		[]string{"status"},
	)
	BaselineInstruments = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "baseline_instruments", Help: "Instruments in the active baseline set"},
	)
	ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: namespace, Name: "scan_duration_seconds", Help: "Wall time of a full scan pass", Buckets: prometheus.ExponentialBuckets(15, 2, 8)},
	)
	ReportItems = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "report_items", Help: "Items in the latest report"},
	)
)

func init() {
	prometheus.MustRegister(
		QuoteBatchesTotal,
		QuoteOutcomesTotal,
		ClassificationsTotal,
		EnrichmentsTotal,
		RebuildOutcomesTotal,
		BaselineInstruments,
		ScanDuration,
		ReportItems,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
