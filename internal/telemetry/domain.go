package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kassa_transactions_recorded_total",
			Help: "Total number of sales transactions recorded",
		},
		[]string{"source"},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kassa_reports_generated_total",
			Help: "Total number of sales reports generated",
		},
		[]string{"format"},
	)

	ChatMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kassa_chat_messages_total",
			Help: "Total number of chat messages sent",
		},
	)

	ChatConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kassa_chat_connections",
			Help: "Number of open chat websocket connections",
		},
	)
)
