package handler

import (
	"net/http"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/middleware"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) CheckoutArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req dto.ArtworkCheckoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.checkoutService.CheckoutArtwork(ctx, middleware.ClientIDFrom(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) CheckoutExhibition(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req dto.ExhibitionCheckoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.checkoutService.CheckoutExhibition(ctx, middleware.ClientIDFrom(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) PendingOrder(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.checkoutService.PendingOrder(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) DiscardPendingOrder(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.checkoutService.DiscardPendingOrder(ctx, middleware.ClientIDFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
