package router // package router wires HTTP routes to their handlers

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/venue-seat-reservation/internal/handler"    // request handlers
	"github.com/iliyamo/venue-seat-reservation/internal/middleware" // JWT auth and rate limiting
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, which load balancers and
// monitoring systems use to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account endpoints.  Register and login
// live under /v1/auth and need no token; /v1/me sits behind JWTAuth so
// clients can verify what identity their token carries.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterReservation registers the reservation endpoints under /v1.
// Every route requires a valid access token; the extra middlewares
// (typically the rate limiter) run after authentication so their keys
// can include the customer identity.
func RegisterReservation(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	for _, m := range extra {
		g.Use(m)
	}
	g.GET("/availability", r.Availability)
	g.POST("/holds", r.CreateHold)
	g.POST("/holds/:id/reserve", r.Reserve)
}
