package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/repository"
)

type eventReq struct {
	FacilityID  uint64    `json:"facility_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Capacity    int       `json:"capacity"`
	IsActive    *bool     `json:"is_active"`
}

func (r eventReq) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name required")
	}
	if r.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	if r.PriceCents < 0 {
		return errors.New("price must not be negative")
	}
	if !r.EndDate.After(r.StartDate) {
		return errors.New("end_date must be after start_date")
	}
	return nil
}

func (r eventReq) toModel(id uint64) model.Event {
	e := model.Event{
		ID:          id,
		FacilityID:  r.FacilityID,
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		PriceCents:  r.PriceCents,
		StartDate:   r.StartDate.UTC(),
		EndDate:     r.EndDate.UTC(),
		Capacity:    r.Capacity,
		IsActive:    true,
	}
	if r.IsActive != nil {
		e.IsActive = *r.IsActive
	}
	return e
}

// CreateEvent schedules a hosted event at a facility.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	// The facility must exist before an event can reference it.
	if _, err := h.Facilities.GetByID(c.Request().Context(), req.FacilityID); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	e := req.toModel(0)
	if err := h.Events.Create(c.Request().Context(), &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, e)
}

// UpdateEvent overwrites an event's mutable fields.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	e := req.toModel(id)
	if err := h.Events.Update(c.Request().Context(), &e); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	return c.JSON(http.StatusOK, e)
}

// DeleteEvent removes an event.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
