package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses. Only Confirmed bookings hold seats.
const (
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCancelled = "Cancelled"
	BookingStatusPending   = "Pending"
)

// ValidBookingStatus reports whether s is one of the accepted statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusPending:
		return true
	}
	return false
}

// Seat identifies a reservable unit within an event. Seats are embedded
// in bookings; there is no standalone seat collection. "Reserved" is a
// derived concept: the seats of all Confirmed bookings for an event.
type Seat struct {
	Row    int `bson:"row" json:"row"`
	Column int `bson:"column" json:"column"`
}

// Label renders the seat in the form used in messages and queue payloads.
func (s Seat) Label() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Column)
}

// Booking is a document in the "bookings" collection. EventID is a
// plain reference (no foreign key); event and user snapshots are
// captured at booking time so listings survive later event edits.
// NumTickets always equals len(Seats). Bookings are never removed,
// only moved between statuses.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID       string             `bson:"event_id" json:"event_id"`
	EventTitle    string             `bson:"event_title,omitempty" json:"event_title"`
	EventDate     string             `bson:"event_date,omitempty" json:"event_date"`
	EventTime     string             `bson:"event_time,omitempty" json:"event_time"`
	EventLocation string             `bson:"event_location,omitempty" json:"event_location"`
	UserEmail     string             `bson:"user_email" json:"user_email"`
	UserName      string             `bson:"user_name,omitempty" json:"user_name"`
	NumTickets    int                `bson:"num_tickets" json:"num_tickets"`
	TotalPrice    float64            `bson:"total_price" json:"total_price"`
	Seats         []Seat             `bson:"seats" json:"seats"`
	BookingStatus string             `bson:"booking_status" json:"booking_status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
