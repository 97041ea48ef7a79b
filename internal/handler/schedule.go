package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
)

// ScheduleHandler exposes schedule management. Creation and deletion
// are mounted behind the ADMIN role; listing a theme's schedules is
// public.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Themes    *repository.ThemeRepo
}

func NewScheduleHandler(s *repository.ScheduleRepo, t *repository.ThemeRepo) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Themes: t}
}

type scheduleReq struct {
	ThemeID uint64 `json:"theme_id"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM
}

type scheduleResp struct {
	ID      uint64 `json:"id"`
	ThemeID uint64 `json:"theme_id"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Create handles POST /v1/admin/schedules. The target theme must exist
// and the (theme, date, time) triple must be free.
func (h *ScheduleHandler) Create(c echo.Context) error {
	var req scheduleReq
	if err := c.Bind(&req); err != nil || req.ThemeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme_id is required"})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be HH:MM"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Themes.GetByID(ctx, req.ThemeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	s := model.Schedule{ThemeID: req.ThemeID, Date: req.Date, Time: req.Time}
	if err := h.Schedules.Create(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "schedule already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule failed"})
	}
	c.Response().Header().Set("Location", fmt.Sprintf("/v1/themes/%d/schedules", s.ThemeID))
	return c.JSON(http.StatusCreated, scheduleResp{ID: s.ID, ThemeID: s.ThemeID, Date: s.Date, Time: s.Time})
}

// ListByTheme handles GET /v1/themes/:id/schedules?date= (public). An
// empty date returns every schedule for the theme.
func (h *ScheduleHandler) ListByTheme(c echo.Context) error {
	themeID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theme id"})
	}
	date := c.QueryParam("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Schedules.ListByTheme(ctx, themeID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schedules failed"})
	}
	out := make([]scheduleResp, 0, len(list))
	for _, s := range list {
		out = append(out, scheduleResp{ID: s.ID, ThemeID: s.ThemeID, Date: s.Date, Time: s.Time})
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/admin/schedules/:id. A schedule with
// reservations or waiting entries cannot be removed.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Schedules.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "schedule still has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete schedule failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
