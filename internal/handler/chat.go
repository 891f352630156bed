package handler

import (
	"net/http"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) Greeting(c echo.Context) error {
	return c.JSON(http.StatusOK, h.chatService.Greeting())
}

func (h *ChatHandler) Ask(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.chatService.Ask(ctx, &req))
}

func (h *ChatHandler) Handoff(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.HandoffRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.chatService.Handoff(ctx, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
