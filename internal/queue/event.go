// Package queue defines the payloads exchanged over the message broker
// and the background consumer for the booking.confirmed queue.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   string   `json:"booking_id"`
	EventID     string   `json:"event_id"`
	EventTitle  string   `json:"event_title"`
	UserEmail   string   `json:"user_email"`
	UserName    string   `json:"user_name"`
	Seats       []string `json:"seats"`
	NumTickets  int      `json:"num_tickets"`
	TotalPrice  float64  `json:"total_price"`
	ConfirmedAt string   `json:"confirmed_at"`
}
