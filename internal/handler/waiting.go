package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/engine"
)

// WaitingHandler maps the waiting-list endpoints onto the waiting
// engine. Per the reference behavior, enqueue failures other than a
// missing token all collapse into 400.
type WaitingHandler struct {
	Engine *engine.WaitingEngine
}

// NewWaitingHandler constructs a WaitingHandler. The engine must be
// non-nil.
func NewWaitingHandler(e *engine.WaitingEngine) *WaitingHandler {
	if e == nil {
		panic("nil engine passed to NewWaitingHandler")
	}
	return &WaitingHandler{Engine: e}
}

type waitingResp struct {
	ID         uint64    `json:"id"`
	ScheduleID uint64    `json:"schedule_id"`
	SeqNo      uint64    `json:"seq_no"`
	Rank       uint64    `json:"rank,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Enqueue handles POST /v1/reservation-waitings. The schedule must
// already be occupied; queueing on a free slot, double-queueing and
// queueing on one's own reservation are all client errors.
func (h *WaitingHandler) Enqueue(c echo.Context) error {
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
	entry, err := h.Engine.Enqueue(c.Request().Context(), m, body.ScheduleID)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, engine.ErrNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule not found"})
		case errors.Is(err, engine.ErrInvalidState):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule is not reserved; reserve it directly"})
		case errors.Is(err, engine.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already reserved or queued for this schedule"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enqueue failed"})
	}
	c.Response().Header().Set("Location", fmt.Sprintf("/v1/reservation-waitings/%d", entry.ID))
	return c.JSON(http.StatusCreated, waitingResp{
		ID:         entry.ID,
		ScheduleID: entry.ScheduleID,
		SeqNo:      entry.SeqNo,
		CreatedAt:  entry.CreatedAt,
	})
}

// Withdraw handles DELETE /v1/reservation-waitings/:id. Only the owner
// or an admin may withdraw an entry.
func (h *WaitingHandler) Withdraw(c echo.Context) error {
	m, err := actingMember(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid waiting id"})
	}
	if err := h.Engine.Withdraw(c.Request().Context(), m, id); err != nil {
		switch {
		case errors.Is(err, engine.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, engine.ErrUnauthorized):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, engine.ErrNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "waiting entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "withdraw failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/reservation-waitings/mine, returning the
// member's queue entries with their current 1-based positions.
func (h *WaitingHandler) ListMine(c echo.Context) error {
	m, err := actingMember(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Engine.ListMine(c.Request().Context(), m)
	if err != nil {
		if errors.Is(err, engine.ErrUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load waitings failed"})
	}
	out := make([]waitingResp, 0, len(list))
	for _, w := range list {
		out = append(out, waitingResp{
			ID:         w.ID,
			ScheduleID: w.ScheduleID,
			SeqNo:      w.SeqNo,
			Rank:       w.Rank,
			CreatedAt:  w.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}
