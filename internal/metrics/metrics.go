package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsAdmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookline",
			Name:      "bookings_admitted_total",
			Help:      "Admitted bookings by flow (public/owner).",
		},
		[]string{"flow"},
	)

	bookingsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookline",
			Name:      "bookings_rejected_total",
			Help:      "Rejected bookings by error code.",
		},
		[]string{"code"},
	)

	slotQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookline",
			Name:      "slot_queries_total",
			Help:      "Availability queries by cache outcome.",
		},
		[]string{"cache"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsAdmitted, bookingsRejected, slotQueries)
	})
}

func IncAdmitted(flow string)     { bookingsAdmitted.WithLabelValues(flow).Inc() }
func IncRejected(code string)     { bookingsRejected.WithLabelValues(code).Inc() }
func IncSlotQuery(outcome string) { slotQueries.WithLabelValues(outcome).Inc() }
