package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ProfileLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "barscope",
			Subsystem: "profile",
			Name:      "latency_seconds",
			Help:      "Latency of session analytics endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ProfileErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barscope",
			Subsystem: "profile",
			Name:      "errors_total",
			Help:      "Errors by session analytics endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ProfileLatency, ProfileErrors)
	})
}
