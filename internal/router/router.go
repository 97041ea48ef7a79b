package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/handler"
	"github.com/iliyamo/escape-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body with `refresh_token` and invalidates
	// that token. It does not require a JWT so that clients with an
	// expired access token can still end their session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints. Guests can
// inspect the theme catalogue, each theme's schedules and which slots
// are already taken before deciding to register.
//
// The slot availability listing is the hottest read path, so the Redis
// response cache middleware is attached to it when caching is enabled;
// pass nil to skip it.
func RegisterPublic(e *echo.Echo, t *handler.ThemeHandler, s *handler.ScheduleHandler, r *handler.ReservationHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/themes", t.List)
	e.GET("/v1/themes/:id/schedules", s.ListByTheme)
	if cache != nil {
		e.GET("/v1/reservations", r.ListBySlot, cache)
	} else {
		e.GET("/v1/reservations", r.ListBySlot)
	}
}
