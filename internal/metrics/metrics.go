// Package metrics exposes the service's prometheus counters.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnweb",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by initial status.",
		},
		[]string{"status"},
	)

	statusTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnweb",
			Name:      "booking_status_transition_total",
			Help:      "Count of booking lifecycle transitions by edge.",
		},
		[]string{"from", "to"},
	)

	priceAdjustment = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnweb",
			Name:      "price_adjustment_total",
			Help:      "Count of bulk catalog repricings by mode.",
		},
		[]string{"mode"},
	)

	cashClosing = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "turnweb",
			Name:      "cash_closing_total",
			Help:      "Count of daily cash closings performed.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, statusTransition, priceAdjustment, cashClosing)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncStatusTransition(from, to string) {
	statusTransition.WithLabelValues(from, to).Inc()
}

func IncPriceAdjustment(mode string) {
	priceAdjustment.WithLabelValues(mode).Inc()
}

func IncCashClosing() {
	cashClosing.Inc()
}
