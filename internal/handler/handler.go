package handler

import (
	"net/http"

	"gallery-storefront/internal/model"

	"github.com/labstack/echo/v4"
)

// bind decodes the request into req and runs the registered validator on it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	return c.Validate(req)
}

func idParam(c echo.Context) (model.ID, error) {
	id := c.Param("id")
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing id")
	}
	return model.ID(id), nil
}
