package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/repository"
	"github.com/lwandile/facility-booking/internal/service"
	"github.com/lwandile/facility-booking/internal/token"
)

// BookingHandler exposes customer booking endpoints on top of the
// booking service.
type BookingHandler struct {
	Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

type attendeeReq struct {
	Name       string `json:"name"`
	ClientType string `json:"client_type"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

type createBookingReq struct {
	FacilityID  uint64        `json:"facility_id"`
	EventID     *uint64       `json:"event_id"`
	Date        string        `json:"date"` // YYYY-MM-DD
	StartMinute int           `json:"start_minute"`
	EndMinute   int           `json:"end_minute"`
	Attendees   []attendeeReq `json:"attendees"`
}

// Create books a facility slot or event admission.  Pricing, admission
// and token minting all happen in the service; this handler only
// translates the request and the error taxonomy.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.ParseInLocation(token.DateLayout, req.Date, time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	attendees := make([]model.Attendee, 0, len(req.Attendees))
	for _, a := range req.Attendees {
		attendees = append(attendees, model.Attendee{
			Name:       a.Name,
			ClientType: a.ClientType,
			Email:      a.Email,
			Phone:      a.Phone,
		})
	}

	res, err := h.Svc.CreateReservation(c.Request().Context(), service.CreateBookingRequest{
		UserID:      uid,
		FacilityID:  req.FacilityID,
		EventID:     req.EventID,
		Date:        date,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Attendees:   attendees,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// CreateFree spends 100 loyalty points on a full-day booking at the
// least-booked facility.
func (h *BookingHandler) CreateFree(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	res, err := h.Svc.CreateFreeReservation(c.Request().Context(), uid)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// List returns the caller's bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Svc.ListBookings(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// Get returns a single booking owned by the caller.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Svc.GetBooking(c.Request().Context(), id, uid)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel cancels a booking owned by the caller, freeing its slot.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Svc.CancelBooking(c.Request().Context(), id, uid); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Loyalty returns the caller's current point balance.
func (h *BookingHandler) Loyalty(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	acc, err := h.Svc.LoyaltyBalance(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, acc)
}

// bookingError maps domain errors onto HTTP statuses.  Unavailability
// and double spends are conflicts, not client mistakes.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidWindow), errors.Is(err, service.ErrNoAttendees):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrFacilityNotFound),
		errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrEventEnded):
		return c.JSON(http.StatusGone, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSlotUnavailable),
		errors.Is(err, repository.ErrInsufficientPoints),
		errors.Is(err, repository.ErrNoFacilityAvailable),
		errors.Is(err, repository.ErrTokenUsed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, token.ErrInvalid):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid token"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
