package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// getMemberID extracts the member_id from echo.Context and converts it
// to uint64. The JWT middleware stores claims without asserting types,
// so every plausible representation is handled here.
func getMemberID(c echo.Context) (uint64, error) {
	v := c.Get("member_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid member_id in context")
}

// actingMember rebuilds the authenticated member from the JWT claims in
// the context. The engines only consult id and role, so the record is
// not reloaded from the database on every request.
func actingMember(c echo.Context) (model.Member, error) {
	id, err := getMemberID(c)
	if err != nil {
		return model.Member{}, err
	}
	role, _ := c.Get("role").(string)
	return model.Member{ID: id, Role: role}, nil
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
