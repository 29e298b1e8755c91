package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
)

// ErrDateRequired is returned when creating an event without a date.
var ErrDateRequired = errors.New("date is required")

// ErrInvalidDate is returned when the date does not parse as YYYY-MM-DD.
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// GuardEventStore is the slice of EventRepo the guard needs.
type GuardEventStore interface {
	GetByID(ctx context.Context, id string) (model.Event, error)
	Insert(ctx context.Context, e *model.Event) (string, error)
	Delete(ctx context.Context, id string) error
}

// BookingCounter counts Confirmed bookings for an event.
type BookingCounter interface {
	CountConfirmed(ctx context.Context, eventID string) (int64, error)
}

// CreateEventInput carries the caller-supplied event fields. Organizer
// identity comes from the owner profile, never from the request.
type CreateEventInput struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	Date        string
	Time        string
	EndDate     string
	Location    string
	City        string
	Address     string
	Price       float64
	TicketType  string
	Capacity    int
	ImageURL    string
	BannerURL   string
	Tags        []string
	Status      string
	Featured    bool
}

// EventGuard enforces the preconditions around event creation and
// deletion.
type EventGuard struct {
	events   GuardEventStore
	bookings BookingCounter
}

func NewEventGuard(events GuardEventStore, bookings BookingCounter) *EventGuard {
	if events == nil || bookings == nil {
		panic("nil dependency passed to NewEventGuard")
	}
	return &EventGuard{events: events, bookings: bookings}
}

// Create validates the date, stamps ownership and organizer fields from
// the owner profile and inserts the event. Status defaults to Published
// and the attendee counter starts at zero.
func (g *EventGuard) Create(ctx context.Context, in CreateEventInput, owner model.User) (string, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return "", ErrDateRequired
	}
	if _, err := time.Parse(model.EventDateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	status := in.Status
	if status == "" {
		status = model.EventStatusPublished
	}
	ticketType := in.TicketType
	if ticketType == "" {
		ticketType = model.TicketTypePaid
	}
	e := &model.Event{
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Subcategory:    in.Subcategory,
		Date:           date,
		Time:           in.Time,
		EndDate:        in.EndDate,
		Location:       in.Location,
		City:           in.City,
		Address:        in.Address,
		Price:          in.Price,
		TicketType:     ticketType,
		Capacity:       in.Capacity,
		OrganizerName:  owner.FullName,
		OrganizerEmail: owner.Email,
		OrganizerPhone: owner.Phone,
		ImageURL:       in.ImageURL,
		BannerURL:      in.BannerURL,
		Tags:           in.Tags,
		Status:         status,
		Featured:       in.Featured,
		AttendeesCount: 0,
		CreatedBy:      owner.Email,
	}
	return g.events.Insert(ctx, e)
}

// Delete removes an event after its preconditions pass. The checks run
// in a fixed order: existence, then active bookings, then ownership.
// A non-owner deleting an event that still has Confirmed bookings
// therefore sees the active-bookings error, not a 403. That ordering
// is documented API behavior and is pinned by tests.
func (g *EventGuard) Delete(ctx context.Context, eventID, requesterEmail string) error {
	ev, err := g.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	n, err := g.bookings.CountConfirmed(ctx, eventID)
	if err != nil {
		return err
	}
	if n > 0 {
		return repository.ErrActiveBookings
	}
	if ev.CreatedBy != requesterEmail {
		return repository.ErrForbidden
	}
	return g.events.Delete(ctx, eventID)
}
