package handler

import (
	"net/http"
	"strconv"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/middleware"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func confirmed(c echo.Context) bool {
	ok, _ := strconv.ParseBool(c.QueryParam("confirm"))
	return ok
}

// -------- artworks --------

func (h *AdminHandler) ListArtworks(c echo.Context) error {
	ctx := c.Request().Context()

	artworks, err := h.adminService.ListArtworks(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artworkList(artworks))
}

func (h *AdminHandler) CreateArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ArtworkRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	artworks, err := h.adminService.CreateArtwork(ctx, middleware.ClientIDFrom(c), req.Model())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, artworkList(artworks))
}

func (h *AdminHandler) UpdateArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req dto.ArtworkRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	artworks, err := h.adminService.UpdateArtwork(ctx, middleware.ClientIDFrom(c), id, req.Model())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artworkList(artworks))
}

func (h *AdminHandler) DeleteArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	artworks, err := h.adminService.DeleteArtwork(ctx, middleware.ClientIDFrom(c), id, confirmed(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artworkList(artworks))
}

// -------- exhibitions --------

func (h *AdminHandler) ListExhibitions(c echo.Context) error {
	ctx := c.Request().Context()

	exhibitions, err := h.adminService.ListExhibitions(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exhibitionList(exhibitions))
}

func (h *AdminHandler) CreateExhibition(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ExhibitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	exhibitions, err := h.adminService.CreateExhibition(ctx, middleware.ClientIDFrom(c), req.Model())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, exhibitionList(exhibitions))
}

func (h *AdminHandler) UpdateExhibition(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req dto.ExhibitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	exhibitions, err := h.adminService.UpdateExhibition(ctx, middleware.ClientIDFrom(c), id, req.Model())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exhibitionList(exhibitions))
}

func (h *AdminHandler) DeleteExhibition(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	exhibitions, err := h.adminService.DeleteExhibition(ctx, middleware.ClientIDFrom(c), id, confirmed(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exhibitionList(exhibitions))
}

func artworkList(artworks []*model.Artwork) dto.ArtworkListResponse {
	if artworks == nil {
		artworks = []*model.Artwork{}
	}
	return dto.ArtworkListResponse{Artworks: artworks, Total: len(artworks), Empty: len(artworks) == 0}
}

func exhibitionList(exhibitions []*model.Exhibition) dto.ExhibitionListResponse {
	if exhibitions == nil {
		exhibitions = []*model.Exhibition{}
	}
	return dto.ExhibitionListResponse{Exhibitions: exhibitions, Total: len(exhibitions), Empty: len(exhibitions) == 0}
}

// -------- orders, tickets, messages --------

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.adminService.ListOrders(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ListTickets(c echo.Context) error {
	ctx := c.Request().Context()

	tickets, err := h.adminService.ListTickets(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	if tickets == nil {
		tickets = []*model.Ticket{}
	}
	return c.JSON(http.StatusOK, dto.TicketsResponse{Tickets: tickets})
}

func (h *AdminHandler) ListMessages(c echo.Context) error {
	ctx := c.Request().Context()

	messages, err := h.adminService.ListMessages(ctx, middleware.ClientIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageList(messages))
}

func (h *AdminHandler) UpdateMessageStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req dto.MessageStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	messages, err := h.adminService.UpdateMessageStatus(ctx, middleware.ClientIDFrom(c), id, model.MessageStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageList(messages))
}

func messageList(messages []*model.ContactMessage) dto.MessagesResponse {
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	return dto.MessagesResponse{Messages: messages}
}
