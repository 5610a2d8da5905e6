package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransactionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_created_total",
			Help: "Transactions created, by channel",
		},
		[]string{"channel"},
	)
	TransactionsVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_verified_total",
			Help: "Successful status transitions out of pending, by mode",
		},
		[]string{"mode", "status"}, // mode: auto|manual
	)
	TransactionsFulfilled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_fulfilled_total",
			Help: "Fulfilled transactions, by reference prefix",
		},
		[]string{"prefix"},
	)
	FulfilmentNoOps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfilment_noops_total",
			Help: "Fulfilment calls that lost the conditional-update race",
		},
	)
	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "Swallowed search-index and notification failures",
		},
		[]string{"effect"}, // index|notify|feed
	)
	SideEffectQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "side_effect_queue_depth",
			Help: "Pending jobs in the side-effect worker queue",
		},
	)
)

// Handler serves /metrics.
var Handler = promhttp.Handler

func init() {
	prometheus.MustRegister(TransactionsCreated)
	prometheus.MustRegister(TransactionsVerified)
	prometheus.MustRegister(TransactionsFulfilled)
	prometheus.MustRegister(FulfilmentNoOps)
	prometheus.MustRegister(SideEffectFailures)
	prometheus.MustRegister(SideEffectQueueDepth)
}
