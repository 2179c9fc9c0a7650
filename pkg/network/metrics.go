package network

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFramesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "frames_received_total",
		Help:      "Raw frames read off transports.",
	})

	metricPacketsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "packets_dispatched_total",
		Help:      "Packets handed to protocol tables and receive handlers.",
	})

	metricFramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "frames_dropped_total",
		Help:      "Frames the packet factory rejected.",
	})

	metricSendsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "sends_failed_total",
		Help:      "Frame writes that failed and tore the connection down.",
	})

	metricConnsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "connections_accepted_total",
		Help:      "Connections accepted by listeners.",
	})

	metricConnsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "connections_closed_total",
		Help:      "Transports torn down.",
	})
)
