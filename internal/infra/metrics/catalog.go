package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(intakeTotal, broadcastDeliveriesTotal, catalogRequestsTotal, catalogLatencyMs)
}

var (
	intakeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_total",
			Help: "Product intake attempts by result.",
		},
		[]string{"result"}, // created, format_error, upstream_error
	)

	broadcastDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_deliveries_total",
			Help: "Broadcast messages sent per target kind and status.",
		},
		[]string{"target", "status"},
	)

	catalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Outbound catalog and image host calls by operation and status.",
		},
		[]string{"op", "status"},
	)

	catalogLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_latency_ms",
			Help:    "Outbound catalog and image host latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"op"},
	)
)

func IncIntake(result string) {
	intakeTotal.WithLabelValues(norm(result)).Inc()
}

func IncBroadcastDelivery(target, status string) {
	broadcastDeliveriesTotal.WithLabelValues(norm(target), norm(status)).Inc()
}

func ObserveCatalogRequest(op string, err error, latencyMs int64) {
	catalogRequestsTotal.WithLabelValues(norm(op), StatusOf(err)).Inc()
	catalogLatencyMs.WithLabelValues(norm(op)).Observe(float64(latencyMs))
}
