package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	eventsTotal    *prometheus.CounterVec
	reduceDuration *prometheus.HistogramVec
	queueDepth     prometheus.Gauge
	subscribers    prometheus.Gauge
}

func newMetrics(registry prometheus.Registerer, namespace string) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "events_total",
			Help:      "Total number of events reduced",
		}, []string{"event"}),

		reduceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reduce_duration_seconds",
			Help:      "Time spent folding an event through all reducers",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		}, []string{"event"}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "queue_depth",
			Help:      "Number of queued items waiting to be processed",
		}),

		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "subscribers",
			Help:      "Number of active state subscribers",
		}),
	}
}
