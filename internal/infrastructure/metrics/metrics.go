package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gofinance"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgerOperations *prometheus.CounterVec
	LedgerDuration   *prometheus.HistogramVec

	// Goal metrics
	GoalDeposits *prometheus.CounterVec

	// Reconciliation metrics
	AccountsReconciled          prometheus.Counter
	ReconciliationDiscrepancies prometheus.Counter

	// Quote metrics
	QuoteLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotentReplays prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LedgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_operations_total",
				Help:      "Total ledger mutations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		LedgerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_operation_duration_seconds",
				Help:      "Duration of ledger mutations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		GoalDeposits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "goal_deposits_total",
				Help:      "Goal deposits by result",
			},
			[]string{"result"},
		),

		AccountsReconciled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_accounts_checked_total",
			Help:      "Total accounts checked by reconciliation",
		}),
		ReconciliationDiscrepancies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_discrepancies_total",
			Help:      "Total balance discrepancies found by reconciliation",
		}),

		QuoteLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_lookups_total",
				Help:      "Quote lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served",
		}),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total authentication attempts",
			},
			[]string{"action", "status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total requests rejected by the rate limiter",
		}),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Total responses replayed from the idempotency store",
		}),
	}
}

// ObserveLedgerOperation records one ledger mutation.
func (m *Metrics) ObserveLedgerOperation(operation, outcome string, duration time.Duration) {
	m.LedgerOperations.WithLabelValues(operation, outcome).Inc()
	m.LedgerDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveGoalDeposit records a goal deposit; unknown goals count as ignored.
func (m *Metrics) ObserveGoalDeposit(applied bool) {
	result := "applied"
	if !applied {
		result = "ignored"
	}
	m.GoalDeposits.WithLabelValues(result).Inc()
}

// ObserveReconciliation records one reconciliation run.
func (m *Metrics) ObserveReconciliation(checked, discrepancies int) {
	m.AccountsReconciled.Add(float64(checked))
	m.ReconciliationDiscrepancies.Add(float64(discrepancies))
}

// ObserveQuoteLookup records a quote lookup result (hit, miss, error, empty).
func (m *Metrics) ObserveQuoteLookup(result string) {
	m.QuoteLookups.WithLabelValues(result).Inc()
}

// ObserveAuthAttempt records a login or registration attempt.
func (m *Metrics) ObserveAuthAttempt(action, status string) {
	m.AuthAttempts.WithLabelValues(action, status).Inc()
}
