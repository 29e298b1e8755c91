// Package monitoring exposes prometheus counters for the booking path.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_confirmed_total",
			Help: "Total bookings confirmed",
		},
	)

	ticketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Total tickets across confirmed bookings",
		},
	)

	seatConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_conflicts_total",
			Help: "Booking attempts rejected because a seat was already taken",
		},
	)

	bookingsBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_blocked_total",
			Help: "Booking attempts rejected before the seat check (missing details, organizer self-booking)",
		},
	)
)

// BookingConfirmed records a confirmed booking of n tickets.
func BookingConfirmed(n int) {
	bookingsConfirmed.Inc()
	ticketsSold.Add(float64(n))
}

// SeatConflict records a rejected booking attempt due to a seat collision.
func SeatConflict() {
	seatConflicts.Inc()
}

// BookingBlocked records a booking attempt rejected by a precondition
// other than a seat collision.
func BookingBlocked() {
	bookingsBlocked.Inc()
}
