// internal/messaging/metrics.go

package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_messages_sent_total",
			Help: "Total number of chat messages persisted",
		},
	)

	wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_ws_connections",
			Help: "Number of currently connected websocket clients",
		},
	)

	wsEventsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_ws_events_sent_total",
			Help: "Total number of websocket events delivered",
		},
		[]string{"type"},
	)
)
