package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/handler"
	"github.com/iliyamo/escape-room-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin, plus
// the reservation approval route. All routes require a valid JWT and
// the ADMIN role.
func RegisterAdmin(e *echo.Echo, t *handler.ThemeHandler, s *handler.ScheduleHandler, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Themes ----
	g.POST("/themes", t.Create)
	g.DELETE("/themes/:id", t.Delete)

	// ---- Schedules ----
	g.POST("/schedules", s.Create)
	g.DELETE("/schedules/:id", s.Delete)

	// Approval is admin-only but lives on the reservation resource.
	a := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	a.PATCH("/reservations/:id/approve", r.Approve)
}
