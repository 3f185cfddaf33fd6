package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/service"
)

// RedeemHandler verifies and consumes redemption tokens at the
// facility gate.  Redemption is an admin operation: facility staff
// scan the customer's code.
type RedeemHandler struct {
	Svc *service.BookingService
}

func NewRedeemHandler(svc *service.BookingService) *RedeemHandler {
	return &RedeemHandler{Svc: svc}
}

type redeemReq struct {
	Token string `json:"token"`
}

// Redeem consumes a token exactly once.  A second presentation of the
// same token conflicts; forged or corrupted tokens are rejected
// without revealing which check failed.
func (h *RedeemHandler) Redeem(c echo.Context) error {
	var req redeemReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	b, err := h.Svc.Redeem(c.Request().Context(), strings.TrimSpace(req.Token))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":  b.ID,
		"facility_id": b.FacilityID,
		"date":        b.Date.Format("2006-01-02"),
		"redeemed_at": b.UsedAt,
	})
}
