package service

import (
	"context"
	"fmt"
	"net/http"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/catalog"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/model"
)

type CatalogService interface {
	ListArtworks(ctx context.Context, q *dto.ArtworkQuery) (*dto.ArtworkListResponse, error)
	GetArtwork(ctx context.Context, id model.ID) (*model.Artwork, error)
	ListExhibitions(ctx context.Context, q *dto.ExhibitionQuery) (*dto.ExhibitionListResponse, error)
	GetExhibition(ctx context.Context, id model.ID) (*model.Exhibition, error)
}

type catalogServiceImpl struct {
	gallery client.GalleryClient
}

func NewCatalogService(gallery client.GalleryClient) CatalogService {
	return &catalogServiceImpl{
		gallery: gallery,
	}
}

func (s *catalogServiceImpl) ListArtworks(ctx context.Context, q *dto.ArtworkQuery) (*dto.ArtworkListResponse, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperror.Validation("minimum price cannot exceed maximum price")
	}

	artworks, err := s.gallery.ListArtworks(ctx)
	if err != nil {
		return nil, err
	}

	filtered := catalog.FilterArtworks(artworks, &catalog.ArtworkFilter{
		Query:    q.Query,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Status:   model.ArtworkStatus(q.Status),
	})
	return &dto.ArtworkListResponse{
		Artworks: filtered,
		Total:    len(filtered),
		Empty:    len(filtered) == 0,
	}, nil
}

func (s *catalogServiceImpl) GetArtwork(ctx context.Context, id model.ID) (*model.Artwork, error) {
	artwork, err := s.gallery.GetArtwork(ctx, id)
	if err != nil {
		return nil, notFound(err, "artwork")
	}
	if artwork.ID == "" && artwork.Title == "" {
		return nil, apperror.NotFound("artwork not found")
	}
	return artwork, nil
}

func (s *catalogServiceImpl) ListExhibitions(ctx context.Context, q *dto.ExhibitionQuery) (*dto.ExhibitionListResponse, error) {
	exhibitions, err := s.gallery.ListExhibitions(ctx)
	if err != nil {
		return nil, err
	}

	filtered := catalog.FilterExhibitions(exhibitions, &catalog.ExhibitionFilter{
		Query:  q.Query,
		Status: model.ExhibitionStatus(q.Status),
	})
	return &dto.ExhibitionListResponse{
		Exhibitions: filtered,
		Total:       len(filtered),
		Empty:       len(filtered) == 0,
	}, nil
}

func (s *catalogServiceImpl) GetExhibition(ctx context.Context, id model.ID) (*model.Exhibition, error) {
	exhibition, err := s.gallery.GetExhibition(ctx, id)
	if err != nil {
		return nil, notFound(err, "exhibition")
	}
	if exhibition.ID == "" && exhibition.Title == "" {
		return nil, apperror.NotFound("exhibition not found")
	}
	return exhibition, nil
}

// notFound turns a backend 404 into the storefront's not-found error and wraps
// everything else.
func notFound(err error, what string) error {
	if apperror.Code(err) == http.StatusNotFound {
		return apperror.New(http.StatusNotFound, what+" not found", err)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
