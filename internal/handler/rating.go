package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/repository"
)

// FacilityGetter resolves a facility for existence checks.
type FacilityGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Facility, error)
}

// RatingStore persists ratings.  Implemented by repository.RatingRepo;
// tests substitute an in-memory store.
type RatingStore interface {
	Create(ctx context.Context, r *model.Rating) error
	ListByFacility(ctx context.Context, facilityID uint64) ([]model.Rating, error)
}

// RatingHandler lets customers rate facilities and anyone read the
// ratings.
type RatingHandler struct {
	Facilities FacilityGetter
	Ratings    RatingStore
}

func NewRatingHandler(facilities FacilityGetter, ratings RatingStore) *RatingHandler {
	return &RatingHandler{Facilities: facilities, Ratings: ratings}
}

type rateReq struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

// Rate handles POST /v1/facilities/:id/rate.  Stars must be 1 to 5;
// the comment is optional.
func (h *RatingHandler) Rate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Stars < 1 || req.Stars > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stars must be between 1 and 5"})
	}
	if _, err := h.Facilities.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rating := &model.Rating{
		FacilityID: id,
		UserID:     uid,
		Stars:      req.Stars,
		Comment:    req.Comment,
	}
	if err := h.Ratings.Create(c.Request().Context(), rating); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, rating)
}

// List handles GET /v1/facilities/:id/ratings, newest first.
func (h *RatingHandler) List(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Facilities.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ratings, err := h.Ratings.ListByFacility(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ratings})
}
