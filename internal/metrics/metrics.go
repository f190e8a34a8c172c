package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "collab"

var (
	Rooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rooms",
		Help:      "Number of rooms held in memory",
	})

	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections",
		Help:      "Number of live room members",
	})

	Broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of payloads broadcast to rooms",
	})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Total number of payload deliveries to room members",
	}, []string{"result"})

	ConnectFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connect_failures_total",
		Help:      "Total number of joins whose initial state could not be delivered",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"code", "method"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"code", "method"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})
)

// Instrument records request count, latency and in-flight requests for next.
// The promhttp delegator keeps http.Hijacker available for websocket upgrades.
func Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(httpInFlight,
		promhttp.InstrumentHandlerDuration(httpLatency,
			promhttp.InstrumentHandlerCounter(httpRequests, next),
		),
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
