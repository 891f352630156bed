package handler

import (
	"net/http"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/middleware"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Submit starts the push payment. The response carries the processing state;
// clients follow it with Status.
func (h *PaymentHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.paymentService.Submit(ctx, middleware.ClientIDFrom(c), req.PhoneNumber)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, resp)
}

func (h *PaymentHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.paymentService.Status(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) TryAgain(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.paymentService.TryAgain(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.paymentService.Cancel(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) History(c echo.Context) error {
	ctx := c.Request().Context()

	attempts, err := h.paymentService.History(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attempts)
}

func (h *PaymentHandler) Attempt(c echo.Context) error {
	ctx := c.Request().Context()

	attempt, err := h.paymentService.Attempt(ctx, middleware.ClientIDFrom(c), c.Param("checkoutRequestId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attempt)
}
