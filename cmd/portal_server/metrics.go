//nolint:gochecknoglobals
package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadia",
		Name:      "logins_total",
		Help:      "The total number of login attempts",
	}, []string{"result"})

	meetingsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadia",
		Name:      "meetings_created",
		Help:      "The total number of meetings created",
	}, []string{"type"})

	messagesMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcadia",
		Name:      "chat_messages",
		Help:      "The total number of chat messages posted",
	})

	wsConnectionsMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "arcadia",
		Name:      "ws_connections",
		Help:      "The total number of websocket listeners",
	})
)
