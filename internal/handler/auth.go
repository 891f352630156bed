package handler

import (
	"net/http"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/middleware"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(ctx, middleware.ClientIDFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.AdminLogin(ctx, middleware.ClientIDFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Signup(ctx, middleware.ClientIDFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(ctx, middleware.ClientIDFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.authService.Logout(ctx, middleware.ClientIDFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.authService.Me(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
