package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/payment"
	"github.com/lwandile/facility-booking/internal/service"
)

// PaymentHandler receives PayFast server-to-server notifications.
// The endpoint is unauthenticated by design: PayFast calls it, not the
// customer.  It always answers 200 to acknowledged notifications so
// the gateway stops retrying; reconciliation itself is idempotent.
type PaymentHandler struct {
	Svc *service.BookingService
}

func NewPaymentHandler(svc *service.BookingService) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

// Notify handles the form-encoded payment notification.
func (h *PaymentHandler) Notify(c echo.Context) error {
	var n payment.Notification
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification"})
	}
	if err := h.Svc.ReconcilePayment(c.Request().Context(), n); err != nil {
		// Reconciliation failures are retried by the gateway.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconcile failed"})
	}
	return c.NoContent(http.StatusOK)
}
