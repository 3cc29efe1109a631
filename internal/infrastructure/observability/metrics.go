package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Счётчик вызовов методов хранилища
	StoreCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_calls_total",
			Help: "Total number of transaction store method calls",
		},
		[]string{"method", "status"},
	)

	// Гистограмма времени выполнения запросов к хранилищу
	StoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_duration_seconds",
			Help:    "Duration of transaction store method calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Текущее число подключённых подписчиков
	BroadcastSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcast_subscribers",
			Help: "Number of currently connected broadcast subscribers",
		},
	)

	// Счётчик событий, отброшенных из-за медленных подписчиков
	BroadcastDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_dropped_total",
			Help: "Total number of events dropped for slow subscribers",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(StoreCalls, StoreDuration, BroadcastSubscribers, BroadcastDropped)
}
