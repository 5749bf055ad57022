package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts served requests by route template, method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchup_http_requests_total",
		Help: "Total HTTP requests by route, method and status code",
	}, []string{"route", "method", "code"})

	// HTTPDuration tracks request latency by route template and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "matchup_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"route", "method"})

	// WebsocketConnections is the number of open chat connections on this instance.
	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchup_websocket_connections",
		Help: "Open chat connections",
	})

	// ChatDeliveries counts frames queued to chat connections by message type.
	ChatDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchup_chat_deliveries_total",
		Help: "Chat frames queued to connections by message type",
	}, []string{"message_type"})

	// ChatDrops counts connections dropped because they could not keep up.
	ChatDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchup_chat_slow_consumer_drops_total",
		Help: "Chat connections dropped for being too slow",
	})

	// RelayedEvents counts chat events by relay outcome.
	RelayedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchup_chat_relayed_events_total",
		Help: "Chat events relayed across instances by outcome",
	}, []string{"direction", "result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
