package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(httpRequestsTotal) }

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Catalog API requests by method, route pattern and status code.",
	},
	[]string{"method", "route", "code"},
)

func IncHTTPRequest(method, route, code string) {
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
}
