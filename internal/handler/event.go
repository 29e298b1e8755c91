package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/ledger"
	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
	"github.com/iliyamo/event-booking/internal/service"
)

// EventHandler serves event browsing, creation, deletion, the
// reserved-seat listing and the counter reconcile endpoint.
type EventHandler struct {
	Events   *repository.EventRepo
	Users    *repository.UserRepo
	Guard    *service.EventGuard
	Ledger   *ledger.Ledger
	Workflow *service.BookingWorkflow
}

func NewEventHandler(events *repository.EventRepo, users *repository.UserRepo, guard *service.EventGuard, ldg *ledger.Ledger, wf *service.BookingWorkflow) *EventHandler {
	if events == nil || users == nil || guard == nil || ldg == nil || wf == nil {
		panic("nil dependency passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Users: users, Guard: guard, Ledger: ldg, Workflow: wf}
}

// List handles GET /api/events/. Supported filters: ?id= (single event
// as a one-element array, empty array on a miss), ?status=,
// ?created_by=me|<email> ("me" requires authentication), ?limit=
// (default 20). Guests may browse; identity is only needed for "me".
func (h *EventHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if id := c.QueryParam("id"); id != "" {
		ev, err := h.Events.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusOK, []model.Event{})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, []model.Event{ev})
	}

	filter := repository.EventFilter{Status: c.QueryParam("status")}
	if createdBy := c.QueryParam("created_by"); createdBy == "me" {
		email, err := requesterEmail(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
		}
		filter.CreatedBy = email
	} else {
		filter.CreatedBy = createdBy
	}
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.Limit = n
		}
	}

	events, err := h.Events.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, events)
}

type createEventReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	EndDate     string   `json:"end_date"`
	Location    string   `json:"location"`
	City        string   `json:"city"`
	Address     string   `json:"address"`
	Price       float64  `json:"price"`
	TicketType  string   `json:"ticket_type"`
	Capacity    int      `json:"capacity"`
	ImageURL    string   `json:"image_url"`
	BannerURL   string   `json:"banner_url"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	Featured    bool     `json:"featured"`
}

// Create handles POST /api/events/create/. Organizer identity comes
// from the caller's profile, not the request body.
func (h *EventHandler) Create(c echo.Context) error {
	userID, err := requesterID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	owner, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Guard.Create(ctx, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Date:        req.Date,
		Time:        req.Time,
		EndDate:     req.EndDate,
		Location:    req.Location,
		City:        req.City,
		Address:     req.Address,
		Price:       req.Price,
		TicketType:  req.TicketType,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
		BannerURL:   req.BannerURL,
		Tags:        req.Tags,
		Status:      req.Status,
		Featured:    req.Featured,
	}, owner)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDateRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Date is required"})
		case errors.Is(err, service.ErrInvalidDate):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Date must be in YYYY-MM-DD format"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "id": id})
}

// Delete handles DELETE /api/events/delete/:id/. The guard checks run
// in a fixed order: existence, active bookings, then ownership — so a
// non-owner deleting an event with live bookings sees the
// active-bookings error.
func (h *EventHandler) Delete(c echo.Context) error {
	email, err := requesterEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	err = h.Guard.Delete(c.Request().Context(), c.Param("id"), email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
		case errors.Is(err, repository.ErrActiveBookings):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cannot delete event with active bookings"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Permission denied"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Deleted successfully"})
}

// ReservedSeats handles GET /api/events/:id/reserved-seats/. Events
// with no Confirmed bookings (or unknown ids) yield an empty array.
func (h *EventHandler) ReservedSeats(c echo.Context) error {
	seats, err := h.Ledger.ReservedSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, seats)
}

// Reconcile handles POST /api/events/:id/reconcile/ (admin only). It
// recomputes attendees_count from Confirmed bookings, repairing drift
// left by status updates or interrupted writes.
func (h *EventHandler) Reconcile(c echo.Context) error {
	count, err := h.Workflow.Reconcile(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconcile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "attendees_count": count})
}
