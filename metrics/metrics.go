package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments exported at /metrics
type Metrics struct {
	SimulatorTicksTotal  prometheus.Counter
	SimulatorErrorsTotal prometheus.Counter
	EventsGenerated      prometheus.Counter
	WSClients            prometheus.Gauge
	WSBroadcastsTotal    prometheus.Counter
	HTTPRequestsTotal    *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SimulatorTicksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "wifidash",
			Subsystem: "simulator",
			Name:      "ticks_total",
			Help:      "Total number of completed simulator ticks",
		}),
		SimulatorErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "wifidash",
			Subsystem: "simulator",
			Name:      "errors_total",
			Help:      "Total number of simulator persistence errors",
		}),
		EventsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "wifidash",
			Subsystem: "simulator",
			Name:      "security_events_generated_total",
			Help:      "Total number of fabricated security events",
		}),
		WSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "wifidash",
			Subsystem: "realtime",
			Name:      "websocket_clients",
			Help:      "Number of currently connected WebSocket clients",
		}),
		WSBroadcastsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "wifidash",
			Subsystem: "realtime",
			Name:      "broadcasts_total",
			Help:      "Total number of WebSocket broadcasts",
		}),
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wifidash",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method and status class",
		}, []string{"method", "status"}),
	}
}
