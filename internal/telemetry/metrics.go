package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики выполнения. Регистрируются в глобальном реестре prometheus;
// встраивающее приложение решает само, как их экспонировать.
var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conveyor_runs_total",
		Help: "Total workflow runs by terminal status",
	}, []string{"status"})

	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conveyor_tasks_total",
		Help: "Total tasks by terminal status",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "conveyor_run_duration_seconds",
		Help:    "Workflow run duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveRun фиксирует завершение run'а.
func ObserveRun(status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(duration.Seconds())
}

// ObserveTask фиксирует терминальный статус task.
func ObserveTask(status string) {
	tasksTotal.WithLabelValues(status).Inc()
}
