package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/handler"
	"github.com/iliyamo/escape-room-reservation/internal/middleware"
)

// RegisterMember registers the member-scoped reservation and waiting
// endpoints under /v1. All routes require a valid JWT; both USER and
// ADMIN roles are accepted so admins can act on their own bookings the
// same way members do.
func RegisterMember(e *echo.Echo, r *handler.ReservationHandler, w *handler.WaitingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)

	// ---- Reservations ----
	g.POST("/reservations", r.Create)
	g.GET("/reservations/mine", r.ListMine)
	// Cancel releases the slot and promotes the waiting-queue head in
	// the same critical section.
	g.PUT("/reservations/:id/cancel", r.Cancel)

	// ---- Waiting queue ----
	g.POST("/reservation-waitings", w.Enqueue)
	g.GET("/reservation-waitings/mine", w.ListMine)
	g.DELETE("/reservation-waitings/:id", w.Withdraw)
}
