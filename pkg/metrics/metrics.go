package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive counts currently accepted websockets
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connections_active",
		Help: "Currently open websocket connections.",
	})

	// RoomsActive counts rooms with at least one member
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_rooms_active",
		Help: "Rooms with at least one member.",
	})

	// MessagesRelayed counts fanned-out payloads by message type
	MessagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_messages_relayed_total",
		Help: "Relayed canvas payloads by type.",
	}, []string{"type"})

	// SendsDropped counts per-recipient deliveries lost to full buffers
	// or closed transports
	SendsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_sends_dropped_total",
		Help: "Per-recipient deliveries dropped.",
	})

	// MalformedPayloads counts inbound frames the router could not parse
	MalformedPayloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_malformed_payloads_total",
		Help: "Inbound payloads dropped as malformed.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
