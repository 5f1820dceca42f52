package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	clicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clicks_total",
			Help: "Recorded affiliate click-throughs per tool.",
		},
		[]string{"tool"},
	)

	clickLogFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "click_log_failures_total",
			Help: "Click-log writes that failed (non-fatal).",
		},
	)

	entriesConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cashback_entries_confirmed_total",
			Help: "Pending entries confirmed by the maturity job.",
		},
	)

	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_total",
			Help: "Transactional emails by kind and outcome.",
		},
		[]string{"kind", "status"},
	)

	syncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_sync_runs_total",
			Help: "Affiliate network sync runs by outcome.",
		},
		[]string{"status"},
	)

	syncUpserts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_sync_upserts_total",
			Help: "Purchases written by the affiliate network sync.",
		},
	)
)

func init() {
	register(clicksTotal, clickLogFailures, entriesConfirmed, emailsTotal, syncRuns, syncUpserts)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncClick(toolID string)  { clicksTotal.WithLabelValues(norm(toolID)).Inc() }
func IncClickLogFailure()     { clickLogFailures.Inc() }
func IncEntriesConfirmed()    { entriesConfirmed.Inc() }
func IncEmail(kind, s string) { emailsTotal.WithLabelValues(norm(kind), norm(s)).Inc() }
func IncSyncRun(status string) {
	syncRuns.WithLabelValues(norm(status)).Inc()
}
func AddSyncUpserts(n int) { syncUpserts.Add(float64(n)) }
