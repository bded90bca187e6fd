package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel_booking",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travel_booking",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travel_booking",
			Name:      "bookings_created_total",
			Help:      "Bookings stored successfully.",
		},
	)
)

// Collectors lists every collector owned by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{httpRequests, httpDuration, bookingsCreated}
}

// Register registers the collectors with the default registry. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(Collectors()...)
	})
}

func ObserveHTTP(route, method string, status int, seconds float64) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(seconds)
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}
