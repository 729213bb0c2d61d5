// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "billscan"

var (
	// LinesParsed counts parsed receipt lines by result ("valid" or "invalid").
	LinesParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lines_parsed_total",
		Help:      "Receipt lines parsed, by result.",
	}, []string{"result"})

	// ReconcileChecks counts reconciliation checks by outcome ("match" or "mismatch").
	ReconcileChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_checks_total",
		Help:      "Reconciliation checks, by outcome.",
	}, []string{"outcome"})

	// OCRCacheLookups counts OCR cache lookups by result ("hit" or "miss").
	OCRCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ocr_cache_lookups_total",
		Help:      "OCR cache lookups, by result.",
	}, []string{"result"})

	// RPCDuration observes unary RPC latency.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Unary RPC latency, by procedure and code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})

	// ActiveSessions is the number of in-memory split sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "In-memory split sessions.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveParse records the valid/invalid line counts of one parse.
func ObserveParse(valid, invalid int) {
	LinesParsed.WithLabelValues("valid").Add(float64(valid))
	LinesParsed.WithLabelValues("invalid").Add(float64(invalid))
}

// ObserveReconcile records one reconciliation outcome.
func ObserveReconcile(mismatch bool) {
	outcome := "match"
	if mismatch {
		outcome = "mismatch"
	}
	ReconcileChecks.WithLabelValues(outcome).Inc()
}
