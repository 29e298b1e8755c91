package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
)

func newGuardFixture() (*EventGuard, *fakeEventStore, *fakeBookingStore) {
	events := newFakeEventStore()
	bookings := newFakeBookingStore()
	return NewEventGuard(events, bookings), events, bookings
}

var owner = model.User{
	FullName: "Olivia Organizer",
	Email:    "olivia@example.com",
	Phone:    "555-0100",
}

func TestCreateEvent_RequiresDate(t *testing.T) {
	guard, _, _ := newGuardFixture()

	_, err := guard.Create(context.Background(), CreateEventInput{Title: "No date"}, owner)
	assert.ErrorIs(t, err, ErrDateRequired)

	_, err = guard.Create(context.Background(), CreateEventInput{Title: "Blank date", Date: "   "}, owner)
	assert.ErrorIs(t, err, ErrDateRequired)
}

func TestCreateEvent_RejectsMalformedDate(t *testing.T) {
	guard, _, _ := newGuardFixture()

	for _, date := range []string{"01-10-2026", "2026/10/01", "next friday"} {
		_, err := guard.Create(context.Background(), CreateEventInput{Date: date}, owner)
		assert.ErrorIs(t, err, ErrInvalidDate, "date %q", date)
	}
}

func TestCreateEvent_StampsOrganizerAndDefaults(t *testing.T) {
	guard, events, _ := newGuardFixture()

	id, err := guard.Create(context.Background(), CreateEventInput{
		Title: "Launch Party",
		Date:  "2026-10-01",
	}, owner)
	require.NoError(t, err)

	e, err := events.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusPublished, e.Status)
	assert.Equal(t, model.TicketTypePaid, e.TicketType)
	assert.Zero(t, e.AttendeesCount)
	assert.Equal(t, owner.Email, e.CreatedBy)
	assert.Equal(t, owner.FullName, e.OrganizerName)
	assert.Equal(t, owner.Phone, e.OrganizerPhone)
}

func TestCreateEvent_KeepsExplicitStatus(t *testing.T) {
	guard, events, _ := newGuardFixture()

	id, err := guard.Create(context.Background(), CreateEventInput{
		Date:       "2026-10-01",
		Status:     model.EventStatusDraft,
		TicketType: model.TicketTypeFree,
	}, owner)
	require.NoError(t, err)

	e, _ := events.GetByID(context.Background(), id)
	assert.Equal(t, model.EventStatusDraft, e.Status)
	assert.Equal(t, model.TicketTypeFree, e.TicketType)
}

func TestDeleteEvent_UnknownEvent(t *testing.T) {
	guard, _, _ := newGuardFixture()

	err := guard.Delete(context.Background(), "missing", owner.Email)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEvent_ActiveBookingsCheckedBeforeOwnership(t *testing.T) {
	guard, events, bookings := newGuardFixture()
	events.put("ev1", model.Event{CreatedBy: owner.Email})
	require.NoError(t, bookings.Insert(context.Background(), &model.Booking{
		EventID:       "ev1",
		BookingStatus: model.BookingStatusConfirmed,
	}))

	// Even a non-owner sees the active-bookings error first.
	err := guard.Delete(context.Background(), "ev1", "stranger@example.com")
	assert.ErrorIs(t, err, repository.ErrActiveBookings)

	err = guard.Delete(context.Background(), "ev1", owner.Email)
	assert.ErrorIs(t, err, repository.ErrActiveBookings)
}

func TestDeleteEvent_NonOwnerForbidden(t *testing.T) {
	guard, events, _ := newGuardFixture()
	events.put("ev1", model.Event{CreatedBy: owner.Email})

	err := guard.Delete(context.Background(), "ev1", "stranger@example.com")
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestDeleteEvent_CancelledBookingsDoNotBlock(t *testing.T) {
	guard, events, bookings := newGuardFixture()
	events.put("ev1", model.Event{CreatedBy: owner.Email})
	require.NoError(t, bookings.Insert(context.Background(), &model.Booking{
		EventID:       "ev1",
		BookingStatus: model.BookingStatusCancelled,
	}))

	require.NoError(t, guard.Delete(context.Background(), "ev1", owner.Email))

	_, err := events.GetByID(context.Background(), "ev1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEvent_OwnerSucceeds(t *testing.T) {
	guard, events, _ := newGuardFixture()
	events.put("ev1", model.Event{CreatedBy: owner.Email})

	require.NoError(t, guard.Delete(context.Background(), "ev1", owner.Email))

	_, err := events.GetByID(context.Background(), "ev1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
