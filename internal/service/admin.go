package service

import (
	"context"
	"fmt"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/session"

	"go.uber.org/zap"
)

var errDeleteNotConfirmed = apperror.Validation("deletion must be confirmed")

// AdminService backs the back-office screens. Every mutation goes to the
// backend first; only after it succeeds is the list fetched again and
// returned, so a failed write leaves the caller's view untouched.
type AdminService interface {
	ListArtworks(ctx context.Context, clientID string) ([]*model.Artwork, error)
	CreateArtwork(ctx context.Context, clientID string, artwork *model.Artwork) ([]*model.Artwork, error)
	UpdateArtwork(ctx context.Context, clientID string, id model.ID, artwork *model.Artwork) ([]*model.Artwork, error)
	DeleteArtwork(ctx context.Context, clientID string, id model.ID, confirmed bool) ([]*model.Artwork, error)

	ListExhibitions(ctx context.Context, clientID string) ([]*model.Exhibition, error)
	CreateExhibition(ctx context.Context, clientID string, exhibition *model.Exhibition) ([]*model.Exhibition, error)
	UpdateExhibition(ctx context.Context, clientID string, id model.ID, exhibition *model.Exhibition) ([]*model.Exhibition, error)
	DeleteExhibition(ctx context.Context, clientID string, id model.ID, confirmed bool) ([]*model.Exhibition, error)

	ListOrders(ctx context.Context, clientID string) (*dto.OrdersResponse, error)
	ListTickets(ctx context.Context, clientID string) ([]*model.Ticket, error)

	ListMessages(ctx context.Context, clientID string) ([]*model.ContactMessage, error)
	UpdateMessageStatus(ctx context.Context, clientID string, id model.ID, status model.MessageStatus) ([]*model.ContactMessage, error)
}

type adminServiceImpl struct {
	gallery  client.GalleryClient
	sessions *session.Registry
	log      *zap.Logger
}

func NewAdminService(gallery client.GalleryClient, sessions *session.Registry, log *zap.Logger) AdminService {
	return &adminServiceImpl{
		gallery:  gallery,
		sessions: sessions,
		log:      log.Named("admin"),
	}
}

// ---- artworks ----

func (s *adminServiceImpl) ListArtworks(ctx context.Context, _ string) ([]*model.Artwork, error) {
	return s.gallery.ListArtworks(ctx)
}

func (s *adminServiceImpl) CreateArtwork(ctx context.Context, clientID string, artwork *model.Artwork) ([]*model.Artwork, error) {
	if err := s.gallery.CreateArtwork(ctx, s.sessions.Get(clientID), artwork); err != nil {
		return nil, fmt.Errorf("create artwork: %w", err)
	}
	s.log.Info("artwork created", zap.String("title", artwork.Title))
	return s.gallery.ListArtworks(ctx)
}

func (s *adminServiceImpl) UpdateArtwork(ctx context.Context, clientID string, id model.ID, artwork *model.Artwork) ([]*model.Artwork, error) {
	artwork.ID = id
	if err := s.gallery.UpdateArtwork(ctx, s.sessions.Get(clientID), id, artwork); err != nil {
		return nil, fmt.Errorf("update artwork %s: %w", id, err)
	}
	s.log.Info("artwork updated", zap.String("id", id.String()))
	return s.gallery.ListArtworks(ctx)
}

func (s *adminServiceImpl) DeleteArtwork(ctx context.Context, clientID string, id model.ID, confirmed bool) ([]*model.Artwork, error) {
	if !confirmed {
		return nil, errDeleteNotConfirmed
	}
	if err := s.gallery.DeleteArtwork(ctx, s.sessions.Get(clientID), id); err != nil {
		return nil, fmt.Errorf("delete artwork %s: %w", id, err)
	}
	s.log.Info("artwork deleted", zap.String("id", id.String()))
	return s.gallery.ListArtworks(ctx)
}

// ---- exhibitions ----

func (s *adminServiceImpl) ListExhibitions(ctx context.Context, _ string) ([]*model.Exhibition, error) {
	return s.gallery.ListExhibitions(ctx)
}

func (s *adminServiceImpl) CreateExhibition(ctx context.Context, clientID string, exhibition *model.Exhibition) ([]*model.Exhibition, error) {
	if err := s.gallery.CreateExhibition(ctx, s.sessions.Get(clientID), exhibition); err != nil {
		return nil, fmt.Errorf("create exhibition: %w", err)
	}
	s.log.Info("exhibition created", zap.String("title", exhibition.Title))
	return s.gallery.ListExhibitions(ctx)
}

func (s *adminServiceImpl) UpdateExhibition(ctx context.Context, clientID string, id model.ID, exhibition *model.Exhibition) ([]*model.Exhibition, error) {
	exhibition.ID = id
	if err := s.gallery.UpdateExhibition(ctx, s.sessions.Get(clientID), id, exhibition); err != nil {
		return nil, fmt.Errorf("update exhibition %s: %w", id, err)
	}
	s.log.Info("exhibition updated", zap.String("id", id.String()))
	return s.gallery.ListExhibitions(ctx)
}

func (s *adminServiceImpl) DeleteExhibition(ctx context.Context, clientID string, id model.ID, confirmed bool) ([]*model.Exhibition, error) {
	if !confirmed {
		return nil, errDeleteNotConfirmed
	}
	if err := s.gallery.DeleteExhibition(ctx, s.sessions.Get(clientID), id); err != nil {
		return nil, fmt.Errorf("delete exhibition %s: %w", id, err)
	}
	s.log.Info("exhibition deleted", zap.String("id", id.String()))
	return s.gallery.ListExhibitions(ctx)
}

// ---- orders & tickets ----

// ListOrders falls back to a sample dataset when the backend cannot be read,
// so the screen stays usable offline.
func (s *adminServiceImpl) ListOrders(ctx context.Context, clientID string) (*dto.OrdersResponse, error) {
	orders, err := s.gallery.AdminListOrders(ctx, s.sessions.Get(clientID))
	if err != nil {
		s.log.Warn("admin orders unavailable, serving sample data", zap.Error(err))
		return &dto.OrdersResponse{Orders: sampleOrders(), Offline: true}, nil
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	return &dto.OrdersResponse{Orders: orders}, nil
}

func (s *adminServiceImpl) ListTickets(ctx context.Context, clientID string) ([]*model.Ticket, error) {
	return s.gallery.ListTickets(ctx, s.sessions.Get(clientID))
}

// ---- messages ----

func (s *adminServiceImpl) ListMessages(ctx context.Context, clientID string) ([]*model.ContactMessage, error) {
	return s.gallery.ListMessages(ctx, s.sessions.Get(clientID))
}

func (s *adminServiceImpl) UpdateMessageStatus(ctx context.Context, clientID string, id model.ID, status model.MessageStatus) ([]*model.ContactMessage, error) {
	if !status.Valid() {
		return nil, apperror.Validation("status must be one of new, read, replied")
	}

	creds := s.sessions.Get(clientID)
	if err := s.gallery.UpdateMessageStatus(ctx, creds, id, status); err != nil {
		return nil, fmt.Errorf("update message %s: %w", id, err)
	}
	return s.gallery.ListMessages(ctx, creds)
}

func sampleOrders() []*model.Order {
	return []*model.Order{
		{
			ID:            "ord-001",
			OrderType:     model.ItemTypeArtwork,
			ItemTitle:     "Abstract Sunset",
			Name:          "John Doe",
			Email:         "john@example.com",
			Amount:        2500,
			PaymentStatus: model.PaymentCompleted,
			CreatedAt:     "2023-04-15T10:30:00",
		},
		{
			ID:            "ord-002",
			OrderType:     model.ItemTypeArtwork,
			ItemTitle:     "Mountain View",
			Name:          "Sarah Johnson",
			Email:         "sarah@example.com",
			Amount:        1800,
			PaymentStatus: model.PaymentPending,
			CreatedAt:     "2023-04-18T14:20:00",
		},
		{
			ID:            "ord-003",
			OrderType:     model.ItemTypeArtwork,
			ItemTitle:     "Ocean Waves",
			Name:          "Michael Wong",
			Email:         "michael@example.com",
			Amount:        3200,
			PaymentStatus: model.PaymentCompleted,
			CreatedAt:     "2023-04-20T09:15:00",
		},
	}
}
