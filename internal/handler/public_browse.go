// This file defines handlers for the public browsing API.  These
// routes let unauthenticated users browse facilities and upcoming
// events.  Listings are display-only snapshots; actual availability is
// decided at booking time.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
	Facilities *repository.FacilityRepo
	Events     *repository.EventRepo
}

func NewPublicHandler(f *repository.FacilityRepo, e *repository.EventRepo) *PublicHandler {
	return &PublicHandler{Facilities: f, Events: e}
}

// PublicFacility exposes only the fields safe for public listings.
type PublicFacility struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	Address           string `json:"address"`
	PricePerHourCents int64  `json:"price_per_hour_cents"`
	Capacity          int    `json:"capacity"`
	IsNoCost          bool   `json:"is_no_cost"`
}

// PublicEvent exposes a hosted event for public listings.
type PublicEvent struct {
	ID         uint64    `json:"id"`
	FacilityID uint64    `json:"facility_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Capacity   int       `json:"capacity"`
}

func publicFacility(f model.Facility) PublicFacility {
	return PublicFacility{
		ID: f.ID, Name: f.Name, Description: f.Description,
		Type: f.Type, Address: f.Address,
		PricePerHourCents: f.PricePerHourCents,
		Capacity:          f.Capacity, IsNoCost: f.IsNoCost,
	}
}

// ListFacilities returns all active facilities.
func (h *PublicHandler) ListFacilities(c echo.Context) error {
	facilities, err := h.Facilities.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicFacility, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, publicFacility(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetFacility returns a single active facility.
func (h *PublicHandler) GetFacility(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	f, err := h.Facilities.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !f.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
	}
	return c.JSON(http.StatusOK, publicFacility(*f))
}

// ListEvents returns active events that have not yet ended.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.ListActive(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicEvent, 0, len(events))
	for _, e := range events {
		out = append(out, PublicEvent{
			ID: e.ID, FacilityID: e.FacilityID, Name: e.Name,
			PriceCents: e.PriceCents,
			StartDate:  e.StartDate, EndDate: e.EndDate,
			Capacity: e.Capacity,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
