package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
)

// ThemeHandler exposes theme management. Creation and deletion are
// mounted behind the ADMIN role; listing is public so anonymous
// visitors can browse the catalogue.
type ThemeHandler struct {
	Themes *repository.ThemeRepo
}

func NewThemeHandler(t *repository.ThemeRepo) *ThemeHandler { return &ThemeHandler{Themes: t} }

type themeReq struct {
	Name  string `json:"name"`
	Desc  string `json:"desc"`
	Price uint32 `json:"price"`
}

type themeResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
	Price uint32 `json:"price"`
}

// Create handles POST /v1/admin/themes.
func (h *ThemeHandler) Create(c echo.Context) error {
	var req themeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := model.Theme{Name: req.Name, Desc: req.Desc, Price: req.Price}
	if err := h.Themes.Create(ctx, &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theme failed"})
	}
	c.Response().Header().Set("Location", fmt.Sprintf("/v1/themes/%d", t.ID))
	return c.JSON(http.StatusCreated, themeResp{ID: t.ID, Name: t.Name, Desc: t.Desc, Price: t.Price})
}

// List handles GET /v1/themes (public).
func (h *ThemeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	themes, err := h.Themes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load themes failed"})
	}
	out := make([]themeResp, 0, len(themes))
	for _, t := range themes {
		out = append(out, themeResp{ID: t.ID, Name: t.Name, Desc: t.Desc, Price: t.Price})
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/admin/themes/:id. A theme that still has
// schedules cannot be removed.
func (h *ThemeHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theme id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Themes.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "theme still has schedules"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete theme failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
