package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
)

// stubSource serves canned bookings per event id.
type stubSource struct {
	bookings map[string][]model.Booking
}

func (s *stubSource) ConfirmedByEvent(_ context.Context, eventID string) ([]model.Booking, error) {
	return s.bookings[eventID], nil
}

func confirmed(seats ...model.Seat) model.Booking {
	return model.Booking{Seats: seats, BookingStatus: model.BookingStatusConfirmed}
}

func TestReservedSeats_EmptyForUnknownEvent(t *testing.T) {
	l := New(&stubSource{bookings: map[string][]model.Booking{}})

	seats, err := l.ReservedSeats(context.Background(), "nope")

	require.NoError(t, err)
	assert.NotNil(t, seats)
	assert.Empty(t, seats)
}

func TestReservedSeats_UnionsConfirmedBookings(t *testing.T) {
	l := New(&stubSource{bookings: map[string][]model.Booking{
		"ev1": {
			confirmed(model.Seat{Row: 1, Column: 1}, model.Seat{Row: 1, Column: 2}),
			confirmed(model.Seat{Row: 2, Column: 1}),
		},
	}})

	seats, err := l.ReservedSeats(context.Background(), "ev1")

	require.NoError(t, err)
	assert.Equal(t, []model.Seat{
		{Row: 1, Column: 1},
		{Row: 1, Column: 2},
		{Row: 2, Column: 1},
	}, seats)
}

func TestCheckCollision_ReportsFirstCollidingSeatInInputOrder(t *testing.T) {
	l := New(&stubSource{bookings: map[string][]model.Booking{
		"ev1": {confirmed(model.Seat{Row: 1, Column: 2}, model.Seat{Row: 1, Column: 3})},
	}})

	err := l.CheckCollision(context.Background(), "ev1", []model.Seat{
		{Row: 5, Column: 5},
		{Row: 1, Column: 3},
		{Row: 1, Column: 2},
	})

	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, model.Seat{Row: 1, Column: 3}, collision.Seat)
}

func TestCheckCollision_PassesWhenSeatsFree(t *testing.T) {
	l := New(&stubSource{bookings: map[string][]model.Booking{
		"ev1": {confirmed(model.Seat{Row: 1, Column: 1})},
	}})

	err := l.CheckCollision(context.Background(), "ev1", []model.Seat{
		{Row: 2, Column: 1},
		{Row: 2, Column: 2},
	})

	assert.NoError(t, err)
}

func TestCheckCollision_DoesNotDeduplicateRequest(t *testing.T) {
	l := New(&stubSource{bookings: map[string][]model.Booking{}})

	// The same free seat twice passes the read-side check; the claim
	// insert is what rejects it.
	err := l.CheckCollision(context.Background(), "ev1", []model.Seat{
		{Row: 4, Column: 4},
		{Row: 4, Column: 4},
	})

	assert.NoError(t, err)
}
