// Package ledger derives the set of reserved seats for an event from its
// Confirmed bookings and answers collision checks against that set. It is
// the authority for "is this seat free" reads; the write-time guarantee
// lives in the seat_claims unique index (see repository.SeatClaimRepo).
package ledger

import (
	"context"
	"fmt"

	"github.com/iliyamo/event-booking/internal/model"
)

// BookingSource yields the Confirmed bookings of an event. Satisfied by
// repository.BookingRepo.
type BookingSource interface {
	ConfirmedByEvent(ctx context.Context, eventID string) ([]model.Booking, error)
}

// CollisionError reports the first requested seat that is already held
// by a Confirmed booking. Handlers translate it into a 400 response.
type CollisionError struct {
	Seat model.Seat
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("seat %s is already taken", e.Seat.Label())
}

// Ledger answers reserved-seat queries for events.
type Ledger struct {
	src BookingSource
}

// New constructs a Ledger over the given booking source.
func New(src BookingSource) *Ledger {
	if src == nil {
		panic("nil booking source passed to ledger.New")
	}
	return &Ledger{src: src}
}

// ReservedSeats returns every seat held by a Confirmed booking of the
// event, in booking order then seat order. Events with no bookings
// yield an empty slice, not an error. Multiplicity is preserved: the
// result lists seats exactly as the bookings carry them.
func (l *Ledger) ReservedSeats(ctx context.Context, eventID string) ([]model.Seat, error) {
	bookings, err := l.src.ConfirmedByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	reserved := make([]model.Seat, 0)
	for _, b := range bookings {
		reserved = append(reserved, b.Seats...)
	}
	return reserved, nil
}

// CheckCollision tests the requested seats against the event's reserved
// set, in input order, and returns a CollisionError for the first seat
// already held. It does not deduplicate the request: a request naming
// the same free seat twice passes this check and is caught by the
// seat-claim unique index instead.
func (l *Ledger) CheckCollision(ctx context.Context, eventID string, requested []model.Seat) error {
	reserved, err := l.ReservedSeats(ctx, eventID)
	if err != nil {
		return err
	}
	taken := make(map[model.Seat]struct{}, len(reserved))
	for _, s := range reserved {
		taken[s] = struct{}{}
	}
	for _, s := range requested {
		if _, ok := taken[s]; ok {
			return &CollisionError{Seat: s}
		}
	}
	return nil
}
