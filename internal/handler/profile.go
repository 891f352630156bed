package handler

import (
	"net/http"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/middleware"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.profileService.Orders(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ProfileOrdersResponse{Orders: orders})
}

func (h *ProfileHandler) Tickets(c echo.Context) error {
	ctx := c.Request().Context()

	tickets, err := h.profileService.Tickets(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.TicketsResponse{Tickets: tickets})
}

func (h *ProfileHandler) Confirmation(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.ConfirmationQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	resp, err := h.profileService.Confirmation(ctx, middleware.ClientIDFrom(c), &q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
