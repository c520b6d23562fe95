// Package metrics exposes Prometheus instrumentation for the admission
// pipeline and ledger. Persistence failures in particular must be observable
// as counters, not just log lines, because the ledger deliberately keeps
// running when a journal write fails.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgate_decisions_total",
			Help: "Admission decisions by result and rule",
		},
		[]string{"result", "rule"},
	)

	fillsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgate_fills_total",
			Help: "Fills applied to the ledger by action",
		},
		[]string{"action"},
	)

	duplicateFillsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskgate_duplicate_fills_total",
			Help: "Fill replays rejected by fill-id dedupe",
		},
	)

	persistenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgate_persistence_errors_total",
			Help: "Journal writes that failed and were swallowed",
		},
		[]string{"op"},
	)

	fallbackDecisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskgate_fallback_decisions_total",
			Help: "Decisions produced from a degraded buying-power source",
		},
	)

	portfolioValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskgate_portfolio_value",
			Help: "Current portfolio value per session",
		},
		[]string{"session"},
	)

	drawdown = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskgate_drawdown",
			Help: "Fractional drawdown from peak per session",
		},
		[]string{"session"},
	)
)

func RecordDecision(approved bool, rule string) {
	result := "approved"
	if !approved {
		result = "rejected"
	}
	decisionsTotal.WithLabelValues(result, rule).Inc()
}

func RecordFill(action string) {
	fillsTotal.WithLabelValues(action).Inc()
}

func RecordDuplicateFill() {
	duplicateFillsTotal.Inc()
}

func RecordPersistenceError(op string) {
	persistenceErrorsTotal.WithLabelValues(op).Inc()
}

func RecordFallbackDecision() {
	fallbackDecisionsTotal.Inc()
}

func SetPortfolio(session string, value, dd float64) {
	portfolioValue.WithLabelValues(session).Set(value)
	drawdown.WithLabelValues(session).Set(dd)
}
