package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction lifecycle metrics
	TransactionsCreated  prometheus.Counter
	TransactionsUpdated  prometheus.Counter
	TransactionsDeleted  prometheus.Counter
	TransactionsRestored prometheus.Counter
	TransactionErrors    *prometheus.CounterVec
	TransactionAmount    prometheus.Histogram

	// Reconciliation metrics
	ReconciliationDuration prometheus.Histogram
	PairsTouched           prometheus.Counter
	ReconciliationRetries  prometheus.Counter

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter
	OutboxBacklog   prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitemate_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitemate_transactions_updated_total",
			Help: "Total number of transactions edited",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitemate_transactions_deleted_total",
			Help: "Total number of transactions soft deleted",
		}),
		TransactionsRestored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitemate_transactions_restored_total",
			Help: "Total number of transactions restored",
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitemate_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitemate_transaction_amount",
			Help:    "Transaction total amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),

		ReconciliationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitemate_reconciliation_duration_seconds",
			Help:    "Duration of balance reconciliations",
			Buckets: prometheus.DefBuckets,
		}),
		PairsTouched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitemate_balance_pairs_touched_total",
			Help: "Total number of balance rows touched by reconciliations",
		}),
		ReconciliationRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitemate_reconciliation_retries_total",
			Help: "Total number of reconciliation retries after lock conflicts",
		}),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitemate_events_published_total",
				Help: "Total outbox events published",
			},
			[]string{"event_type"},
		),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitemate_publish_errors_total",
			Help: "Total outbox publish failures",
		}),
		OutboxBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "splitemate_outbox_backlog",
			Help: "Unpublished outbox events at last poll",
		}),
	}
}
