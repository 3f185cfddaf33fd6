package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/handler"
	"github.com/lwandile/facility-booking/internal/middleware"
	"github.com/lwandile/facility-booking/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.  Admins
// manage facilities and hosted events, and redeem customer tokens at
// the gate.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, r *handler.RedeemHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Facilities ----
	g.POST("/facilities", a.CreateFacility)
	g.PUT("/facilities/:id", a.UpdateFacility)
	g.PATCH("/facilities/:id", a.UpdateFacility)
	g.DELETE("/facilities/:id", a.DeleteFacility)

	// ---- Events ----
	g.POST("/events", a.CreateEvent)
	g.PUT("/events/:id", a.UpdateEvent)
	g.PATCH("/events/:id", a.UpdateEvent)
	g.DELETE("/events/:id", a.DeleteEvent)

	// ---- Redemption ----
	g.POST("/redeem", r.Redeem)
}
