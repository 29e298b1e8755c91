// Package service orchestrates the booking workflow and the event
// lifecycle guard over the repository layer.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/event-booking/internal/ledger"
	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/monitoring"
	"github.com/iliyamo/event-booking/internal/queue"
)

// ErrMissingDetails is returned when the request lacks an event id or
// any seats. Handlers translate it into a 400 response.
var ErrMissingDetails = errors.New("missing booking details")

// ErrOwnEvent is returned when an organizer tries to book their own
// event. Handlers translate it into a 403 response.
var ErrOwnEvent = errors.New("organizers cannot book their own events")

// ErrInvalidStatus is returned when a status update names an unknown
// booking status.
var ErrInvalidStatus = errors.New("invalid booking status")

// EventStore is the slice of EventRepo the workflow needs.
type EventStore interface {
	GetByID(ctx context.Context, id string) (model.Event, error)
	IncrementAttendees(ctx context.Context, id string, delta int) error
	SetAttendees(ctx context.Context, id string, count int) error
}

// BookingStore is the slice of BookingRepo the workflow needs.
type BookingStore interface {
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (model.Booking, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) error
	ConfirmedByEvent(ctx context.Context, eventID string) ([]model.Booking, error)
}

// SeatClaims is the store-level seat guard (repository.SeatClaimRepo).
// Claim must fail with a *ledger.CollisionError when any seat is
// already claimed, leaving no partial state behind.
type SeatClaims interface {
	Claim(ctx context.Context, eventID, bookingID string, seats []model.Seat) error
	Release(ctx context.Context, bookingID string) error
}

// CollisionChecker is the seat ledger's read-side check.
type CollisionChecker interface {
	CheckCollision(ctx context.Context, eventID string, seats []model.Seat) error
}

// ConfirmedPublisher pushes a booking.confirmed message to the broker.
// Publishing is best effort; failures are logged, never surfaced.
type ConfirmedPublisher func(ctx context.Context, e queue.BookingConfirmedEvent) error

// BookingRequest is the input to CreateBooking.
type BookingRequest struct {
	EventID    string
	UserEmail  string
	UserName   string
	Seats      []model.Seat
	TotalPrice float64
}

// BookingWorkflow is the only writer path that creates a Confirmed
// booking together with its seat claims and the attendee-count delta.
type BookingWorkflow struct {
	events   EventStore
	bookings BookingStore
	claims   SeatClaims
	checker  CollisionChecker
	publish  ConfirmedPublisher
}

// NewBookingWorkflow wires the workflow. publish may be nil when no
// broker is configured.
func NewBookingWorkflow(events EventStore, bookings BookingStore, claims SeatClaims, checker CollisionChecker, publish ConfirmedPublisher) *BookingWorkflow {
	if events == nil || bookings == nil || claims == nil || checker == nil {
		panic("nil dependency passed to NewBookingWorkflow")
	}
	return &BookingWorkflow{
		events:   events,
		bookings: bookings,
		claims:   claims,
		checker:  checker,
		publish:  publish,
	}
}

// CreateBooking runs the reservation sequence: validate, resolve the
// event, reject organizer self-booking, check the ledger, then claim
// seats, insert the booking and bump the attendee counter. The claim
// insert against the unique (event_id,row,column) index is the
// serialization point for concurrent requests: the ledger check can
// pass on both sides of a race, but only one claim insert wins. If the
// counter update fails after the insert, the booking and its claims
// are rolled back so no half-committed state remains.
func (w *BookingWorkflow) CreateBooking(ctx context.Context, req BookingRequest) (string, error) {
	if req.EventID == "" || len(req.Seats) == 0 {
		monitoring.BookingBlocked()
		return "", ErrMissingDetails
	}
	ev, err := w.events.GetByID(ctx, req.EventID)
	if err != nil {
		return "", err
	}
	if ev.CreatedBy == req.UserEmail {
		monitoring.BookingBlocked()
		return "", ErrOwnEvent
	}
	if err := w.checker.CheckCollision(ctx, req.EventID, req.Seats); err != nil {
		return "", w.noteCollision(err)
	}

	id := primitive.NewObjectID()
	if err := w.claims.Claim(ctx, req.EventID, id.Hex(), req.Seats); err != nil {
		return "", w.noteCollision(err)
	}
	b := &model.Booking{
		ID:            id,
		EventID:       req.EventID,
		EventTitle:    ev.Title,
		EventDate:     ev.Date,
		EventTime:     ev.Time,
		EventLocation: ev.Location,
		UserEmail:     req.UserEmail,
		UserName:      req.UserName,
		NumTickets:    len(req.Seats),
		TotalPrice:    req.TotalPrice,
		Seats:         req.Seats,
		BookingStatus: model.BookingStatusConfirmed,
	}
	if err := w.bookings.Insert(ctx, b); err != nil {
		_ = w.claims.Release(ctx, id.Hex())
		return "", err
	}
	if err := w.events.IncrementAttendees(ctx, req.EventID, len(req.Seats)); err != nil {
		_ = w.bookings.Delete(ctx, id.Hex())
		_ = w.claims.Release(ctx, id.Hex())
		return "", err
	}

	monitoring.BookingConfirmed(len(req.Seats))
	if w.publish != nil {
		seats := make([]string, 0, len(req.Seats))
		for _, s := range req.Seats {
			seats = append(seats, s.Label())
		}
		evt := queue.BookingConfirmedEvent{
			BookingID:   id.Hex(),
			EventID:     req.EventID,
			EventTitle:  ev.Title,
			UserEmail:   req.UserEmail,
			UserName:    req.UserName,
			Seats:       seats,
			NumTickets:  len(req.Seats),
			TotalPrice:  req.TotalPrice,
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := w.publish(ctx, evt); err != nil {
			log.Printf("booking %s: publish confirmed event failed: %v", id.Hex(), err)
		}
	}
	return id.Hex(), nil
}

// UpdateStatus moves a booking between Confirmed, Cancelled and
// Pending. Seat claims follow the status so the unique index keeps
// meaning "seats of Confirmed bookings": leaving Confirmed releases
// them, re-entering re-claims them and can fail with a collision if the
// seats were taken in the meantime. The attendee counter is
// deliberately not adjusted here; Reconcile repairs the resulting
// drift.
func (w *BookingWorkflow) UpdateStatus(ctx context.Context, id, status string) error {
	if !model.ValidBookingStatus(status) {
		return ErrInvalidStatus
	}
	b, err := w.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.BookingStatus == status {
		return nil
	}
	entering := status == model.BookingStatusConfirmed
	leaving := b.BookingStatus == model.BookingStatusConfirmed

	if entering {
		if err := w.claims.Claim(ctx, b.EventID, id, b.Seats); err != nil {
			return w.noteCollision(err)
		}
	}
	if err := w.bookings.UpdateStatus(ctx, id, status); err != nil {
		if entering {
			_ = w.claims.Release(ctx, id)
		}
		return err
	}
	if leaving {
		_ = w.claims.Release(ctx, id)
	}
	return nil
}

// Reconcile recomputes attendees_count from the event's Confirmed
// bookings and stores the result, repairing any drift left by status
// updates or interrupted writes. Returns the recomputed count.
func (w *BookingWorkflow) Reconcile(ctx context.Context, eventID string) (int, error) {
	if _, err := w.events.GetByID(ctx, eventID); err != nil {
		return 0, err
	}
	bookings, err := w.bookings.ConfirmedByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, b := range bookings {
		total += b.NumTickets
	}
	if err := w.events.SetAttendees(ctx, eventID, total); err != nil {
		return 0, err
	}
	return total, nil
}

// noteCollision counts seat collisions for the metrics endpoint and
// passes the error through unchanged.
func (w *BookingWorkflow) noteCollision(err error) error {
	var ce *ledger.CollisionError
	if errors.As(err, &ce) {
		monitoring.SeatConflict()
	}
	return err
}
