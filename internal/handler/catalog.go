package handler

import (
	"net/http"

	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListArtworks(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		q                  dto.ArtworkQuery
		minPrice, maxPrice float64
	)
	err := echo.QueryParamsBinder(c).
		String("q", &q.Query).
		Float64("minPrice", &minPrice).
		Float64("maxPrice", &maxPrice).
		String("status", &q.Status).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if c.QueryParam("minPrice") != "" {
		q.MinPrice = &minPrice
	}
	if c.QueryParam("maxPrice") != "" {
		q.MaxPrice = &maxPrice
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	resp, err := h.catalogService.ListArtworks(ctx, &q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	artwork, err := h.catalogService.GetArtwork(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artwork)
}

func (h *CatalogHandler) ListExhibitions(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.ExhibitionQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	resp, err := h.catalogService.ListExhibitions(ctx, &q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetExhibition(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	exhibition, err := h.catalogService.GetExhibition(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exhibition)
}
