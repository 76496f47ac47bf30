package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsCreated counts ledger records created by kind
	RecordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_ledger_records_created_total",
			Help: "Total number of ledger records created",
		},
		[]string{"kind"},
	)

	// RecordTransitions counts terminal status transitions by kind and status
	RecordTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_ledger_transitions_total",
			Help: "Total number of ledger status transitions",
		},
		[]string{"kind", "status"},
	)

	// RecordsPurged counts records removed by the retention sweep
	RecordsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "donation_ledger_records_purged_total",
			Help: "Total number of ledger records removed by retention sweeps",
		},
	)

	// PendingRecords tracks the number of pending records seen by the last sweep
	PendingRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "donation_ledger_pending_records",
			Help: "Number of pending ledger records at the last poll sweep",
		},
	)

	// PollSweepDuration tracks receipt poll sweep time
	PollSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "donation_poll_sweep_duration_seconds",
			Help:    "Receipt poll sweep duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ReceiptLookups counts receipt queries by outcome
	ReceiptLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_receipt_lookups_total",
			Help: "Total number of receipt lookups by outcome",
		},
		[]string{"outcome"},
	)

	// TransactionsSubmitted counts chain writes by operation and outcome
	TransactionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_transactions_submitted_total",
			Help: "Total number of chain transactions submitted",
		},
		[]string{"operation", "outcome"},
	)

	// MirrorWrites counts off-chain mirror writes by outcome
	MirrorWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_mirror_writes_total",
			Help: "Total number of off-chain mirror writes",
		},
		[]string{"outcome"},
	)

	// GasUsed tracks gas used for confirmed transactions
	GasUsed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "donation_gas_used",
			Help:    "Gas used for confirmed transactions",
			Buckets: []float64{21000, 50000, 100000, 200000, 300000, 500000},
		},
		[]string{"kind"},
	)

	// ErrorsTotal counts errors by component and type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
