package hub

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes hub counters on a dedicated registry so tests can build
// isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	commandsTotal    *prometheus.CounterVec
	commandErrors    *prometheus.CounterVec
	connectedClients prometheus.Gauge
	eventsTotal      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundstation",
			Name:      "commands_total",
			Help:      "Requests handled, by topic.",
		}, []string{"topic"}),
		commandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundstation",
			Name:      "command_errors_total",
			Help:      "Requests rejected with a failure ack, by topic.",
		}, []string{"topic"}),
		connectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "groundstation",
			Name:      "connected_clients",
			Help:      "Currently connected websocket clients.",
		}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundstation",
			Name:      "events_total",
			Help:      "Event frames broadcast, by topic.",
		}, []string{"topic"}),
	}

	m.registry.MustRegister(m.commandsTotal, m.commandErrors, m.connectedClients, m.eventsTotal)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
