package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/ledger"
	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
	"github.com/iliyamo/event-booking/internal/service"
)

// BookingHandler serves booking creation, listing and status updates.
type BookingHandler struct {
	Workflow *service.BookingWorkflow
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
}

func NewBookingHandler(wf *service.BookingWorkflow, bookings *repository.BookingRepo, users *repository.UserRepo) *BookingHandler {
	if wf == nil || bookings == nil || users == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Workflow: wf, Bookings: bookings, Users: users}
}

type createBookingReq struct {
	EventID    string       `json:"event_id"`
	Seats      []model.Seat `json:"seats"`
	TotalPrice float64      `json:"total_price"`
}

// Create handles POST /api/bookings/. The workflow checks run in a
// fixed order: input validation, event existence, organizer
// self-booking, then the seat collision check; the first failure wins.
func (h *BookingHandler) Create(c echo.Context) error {
	email, err := requesterEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()

	name := ""
	if id, err := requesterID(c); err == nil {
		if u, err := h.Users.GetByID(ctx, id); err == nil {
			name = u.FullName
		}
	}

	bookingID, err := h.Workflow.CreateBooking(ctx, service.BookingRequest{
		EventID:    req.EventID,
		UserEmail:  email,
		UserName:   name,
		Seats:      req.Seats,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		var collision *ledger.CollisionError
		switch {
		case errors.Is(err, service.ErrMissingDetails):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing booking details"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		case errors.Is(err, service.ErrOwnEvent):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Organizers cannot book their own events"})
		case errors.As(err, &collision):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": collision.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "booking_id": bookingID})
}

// MyBookings handles GET /api/bookings/get/ and returns the caller's
// bookings, newest first, in the summary shape clients render.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	email, err := requesterEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, echo.Map{
			"booking_id":     b.ID.Hex(),
			"event_title":    b.EventTitle,
			"num_tickets":    b.NumTickets,
			"booking_status": b.BookingStatus,
			"total_price":    b.TotalPrice,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ListAll handles GET /api/bookings/list/ (admin only), filterable by
// ?user_email= and ?event_id=.
func (h *BookingHandler) ListAll(c echo.Context) error {
	bookings, err := h.Bookings.List(c.Request().Context(), repository.BookingFilter{
		UserEmail: c.QueryParam("user_email"),
		EventID:   c.QueryParam("event_id"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, echo.Map{
			"id":             b.ID.Hex(),
			"event_id":       b.EventID,
			"user_email":     b.UserEmail,
			"num_tickets":    b.NumTickets,
			"booking_status": b.BookingStatus,
			"total_price":    b.TotalPrice,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/bookings/:id/.
func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.Bookings.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":             b.ID.Hex(),
		"event_id":       b.EventID,
		"user_email":     b.UserEmail,
		"num_tickets":    b.NumTickets,
		"booking_status": b.BookingStatus,
	})
}

type updateBookingReq struct {
	BookingStatus string `json:"booking_status"`
}

// Update handles PUT /api/bookings/:id/. Only the status can change;
// seat claims follow the status but the attendee counter is left
// untouched (reconcile repairs the drift). A request without a
// booking_status is a no-op success.
func (h *BookingHandler) Update(c echo.Context) error {
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.BookingStatus == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
	err := h.Workflow.UpdateStatus(c.Request().Context(), c.Param("id"), req.BookingStatus)
	if err != nil {
		var collision *ledger.CollisionError
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid booking status"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		case errors.As(err, &collision):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": collision.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
