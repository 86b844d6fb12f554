package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(workerTasksTotal) }

var workerTasksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_tasks_total",
		Help: "Total number of pool tasks processed, labeled by pool and status.",
	},
	[]string{"pool", "status"}, // 'ok', 'failed'
)

func IncWorkerTask(pool, status string) {
	workerTasksTotal.WithLabelValues(norm(pool), norm(status)).Inc()
}
