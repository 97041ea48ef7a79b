package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/engine"
	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/queue"
	queue_publisher "github.com/iliyamo/escape-room-reservation/internal/service"
)

// ReservationHandler maps the reservation endpoints onto the engine.
// All business rules (occupancy, ownership, promotion) live in the
// engine; this layer only parses requests and translates the engine's
// error taxonomy into HTTP statuses. The mapping is deliberately
// uniform: missing entities surface as 400 on mutation endpoints
// (matching the reference behavior of the original service), while
// approve keeps the 403/404 distinction for admin tooling.
type ReservationHandler struct {
	Engine *engine.ReservationEngine
}

// NewReservationHandler constructs a ReservationHandler. The engine
// must be non-nil.
func NewReservationHandler(e *engine.ReservationEngine) *ReservationHandler {
	if e == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: e}
}

type reservationResp struct {
	ID         uint64    `json:"id"`
	ScheduleID uint64    `json:"schedule_id"`
	Status     string    `json:"status"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReservationResp(r model.Reservation) reservationResp {
	return reservationResp{
		ID:         r.ID,
		ScheduleID: r.ScheduleID,
		Status:     r.Status,
		Approved:   r.Approved,
		CreatedAt:  r.CreatedAt,
	}
}

// Create handles POST /v1/reservations. The body carries the target
// schedule id; the authenticated member becomes the owner. Returns 201
// with a Location header, 400 when the schedule does not exist or the
// slot is already taken (including by the caller themselves).
func (h *ReservationHandler) Create(c echo.Context) error {
	m, err := actingMember(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ScheduleID uint64 `json:"schedule_id"`
	}
	if err := c.Bind(&body); err != nil || body.ScheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id is required"})
	}
	res, err := h.Engine.Create(c.Request().Context(), m, body.ScheduleID)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, engine.ErrNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule not found"})
		case errors.Is(err, engine.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule already reserved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	c.Response().Header().Set("Location", fmt.Sprintf("/v1/reservations/%d", res.ID))
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// ListBySlot handles GET /v1/reservations?theme_id=&date=. It is a
// public availability view: active reservations only, owner identity
// withheld beyond "taken".
func (h *ReservationHandler) ListBySlot(c echo.Context) error {
	themeID, err := strconv.ParseUint(c.QueryParam("theme_id"), 10, 64)
	if err != nil || themeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme_id is required"})
	}
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	list, err := h.Engine.ListBySlot(c.Request().Context(), themeID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// ListMine handles GET /v1/reservations/mine: every reservation the
// member has ever owned, cancelled rows included, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	m, err := actingMember(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Engine.ListMine(c.Request().Context(), m)
	if err != nil {
		if errors.Is(err, engine.ErrUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Approve handles PATCH /v1/reservations/:id/approve (admin only).
// Approving twice is a no-op success.
func (h *ReservationHandler) Approve(c echo.Context) error {
	m, err := actingMember(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.Approve(c.Request().Context(), m, id)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, engine.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, engine.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Cancel handles PUT /v1/reservations/:id/cancel. Cancellation and the
// promotion of the waiting-queue head happen inside the engine's
// per-schedule critical section; when someone was promoted the event
// is published best-effort so notification consumers can pick it up.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	m, err := actingMember(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	promoted, err := h.Engine.Cancel(c.Request().Context(), m, id)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, engine.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, engine.ErrNotFound), errors.Is(err, engine.ErrInvalidState):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if promoted != nil {
		ev := queue.WaitingPromotedEvent{
			ReservationID: promoted.ID,
			ScheduleID:    promoted.ScheduleID,
			MemberID:      promoted.MemberID,
			PromotedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		// Fire and forget; a broker outage must not fail the cancel.
		go func() { _ = queue_publisher.PublishWaitingPromoted(context.Background(), ev) }()
		return c.JSON(http.StatusOK, echo.Map{
			"cancelled": id,
			"promoted":  toReservationResp(*promoted),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": id})
}
