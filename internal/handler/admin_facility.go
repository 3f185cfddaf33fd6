package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/repository"
)

// AdminHandler bundles repositories for administrators managing
// facilities and events.
type AdminHandler struct {
	Facilities *repository.FacilityRepo
	Events     *repository.EventRepo
}

func NewAdminHandler(f *repository.FacilityRepo, e *repository.EventRepo) *AdminHandler {
	return &AdminHandler{Facilities: f, Events: e}
}

type facilityReq struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	Address           string `json:"address"`
	PricePerHourCents int64  `json:"price_per_hour_cents"`
	Capacity          int    `json:"capacity"`
	IsNoCost          bool   `json:"is_no_cost"`
	IsActive          *bool  `json:"is_active"`
}

func (r facilityReq) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name required")
	}
	if r.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	if r.PricePerHourCents < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

// CreateFacility registers a new facility.
func (h *AdminHandler) CreateFacility(c echo.Context) error {
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f := model.Facility{
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Type:              req.Type,
		Address:           req.Address,
		PricePerHourCents: req.PricePerHourCents,
		Capacity:          req.Capacity,
		IsNoCost:          req.IsNoCost,
		IsActive:          true,
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	if err := h.Facilities.Create(c.Request().Context(), &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create facility failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// UpdateFacility overwrites a facility's mutable fields.
func (h *AdminHandler) UpdateFacility(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f := model.Facility{
		ID:                id,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Type:              req.Type,
		Address:           req.Address,
		PricePerHourCents: req.PricePerHourCents,
		Capacity:          req.Capacity,
		IsNoCost:          req.IsNoCost,
		IsActive:          true,
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	if err := h.Facilities.Update(c.Request().Context(), &f); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update facility failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteFacility removes a facility.
func (h *AdminHandler) DeleteFacility(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Facilities.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete facility failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
