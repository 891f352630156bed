package handler

import (
	"net/http"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

func (h *ContactHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.contactService.Submit(ctx, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}
