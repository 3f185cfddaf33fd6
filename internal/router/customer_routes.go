package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/handler"
	"github.com/lwandile/facility-booking/internal/middleware"
	"github.com/lwandile/facility-booking/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers create
// bookings (paid, event and loyalty-funded free ones), view and cancel
// their own bookings, check their loyalty balance and rate facilities.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, r *handler.RatingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.POST("/bookings", h.Create)
	g.POST("/bookings/free", h.CreateFree)
	g.GET("/bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.DELETE("/bookings/:id", h.Cancel)
	g.GET("/loyalty", h.Loyalty)
	g.POST("/facilities/:id/rate", r.Rate)
}
