// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/handler"
	"github.com/lwandile/facility-booking/internal/middleware"
	"github.com/lwandile/facility-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth; the protected /v1/me endpoint
// demonstrates a valid session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleCustomer),
	)
	auth.GET("/me", a.Me)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterPublic registers unauthenticated browse endpoints.  These
// return sanitized listing data for facilities, events and ratings; no
// JWT or role middleware applies.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, r *handler.RatingHandler) {
	e.GET("/v1/facilities", p.ListFacilities)
	e.GET("/v1/facilities/:id", p.GetFacility)
	e.GET("/v1/facilities/:id/ratings", r.List)
	e.GET("/v1/events", p.ListEvents)
}

// RegisterPayments registers the PayFast server-to-server notification
// endpoint.  It is unauthenticated: the gateway, not the customer,
// calls it, and reconciliation is idempotent.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler) {
	e.POST("/v1/payments/notify", p.Notify)
}
