package service

import (
	"context"
	"fmt"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/checkout"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/session"

	"go.uber.org/zap"
)

type CheckoutService interface {
	CheckoutArtwork(ctx context.Context, clientID string, artworkID model.ID, req *dto.ArtworkCheckoutRequest) (*dto.CheckoutResponse, error)
	CheckoutExhibition(ctx context.Context, clientID string, exhibitionID model.ID, req *dto.ExhibitionCheckoutRequest) (*dto.CheckoutResponse, error)
	PendingOrder(ctx context.Context, clientID string) (*dto.CheckoutResponse, error)
	DiscardPendingOrder(ctx context.Context, clientID string) error
}

type checkoutServiceImpl struct {
	catalog     CatalogService
	sessions    *session.Registry
	deliveryFee int64
	log         *zap.Logger
}

func NewCheckoutService(catalog CatalogService, sessions *session.Registry, deliveryFee int64, log *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{
		catalog:     catalog,
		sessions:    sessions,
		deliveryFee: deliveryFee,
		log:         log.Named("checkout"),
	}
}

func (s *checkoutServiceImpl) CheckoutArtwork(ctx context.Context, clientID string, artworkID model.ID, req *dto.ArtworkCheckoutRequest) (*dto.CheckoutResponse, error) {
	artwork, err := s.catalog.GetArtwork(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	intent, err := checkout.NewArtworkIntent(artwork, &checkout.ArtworkForm{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}, s.deliveryFee)
	if err != nil {
		return nil, err
	}

	return s.stage(ctx, clientID, intent)
}

func (s *checkoutServiceImpl) CheckoutExhibition(ctx context.Context, clientID string, exhibitionID model.ID, req *dto.ExhibitionCheckoutRequest) (*dto.CheckoutResponse, error) {
	exhibition, err := s.catalog.GetExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}

	intent, err := checkout.NewExhibitionIntent(exhibition, &checkout.ExhibitionForm{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Slots: req.Slots,
		Notes: req.Notes,
	})
	if err != nil {
		return nil, err
	}

	return s.stage(ctx, clientID, intent)
}

// stage overwrites whatever intent the client had staged before.
func (s *checkoutServiceImpl) stage(ctx context.Context, clientID string, intent *model.OrderIntent) (*dto.CheckoutResponse, error) {
	store := s.sessions.Get(clientID).Store()
	if err := store.SavePendingOrder(ctx, intent); err != nil {
		return nil, fmt.Errorf("stage order intent: %w", err)
	}

	s.log.Info("order intent staged",
		zap.String("client_id", clientID),
		zap.String("type", string(intent.Type)),
		zap.String("item_id", intent.ItemID.String()),
		zap.Int64("total", intent.TotalAmount),
	)
	return checkoutResponse(intent), nil
}

func (s *checkoutServiceImpl) PendingOrder(ctx context.Context, clientID string) (*dto.CheckoutResponse, error) {
	intent, err := s.sessions.Get(clientID).Store().PendingOrder(ctx)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, apperror.NotFound("no pending order found")
	}
	return checkoutResponse(intent), nil
}

func (s *checkoutServiceImpl) DiscardPendingOrder(ctx context.Context, clientID string) error {
	return s.sessions.Get(clientID).Store().ClearPendingOrder(ctx)
}

func checkoutResponse(intent *model.OrderIntent) *dto.CheckoutResponse {
	return &dto.CheckoutResponse{
		Intent:         intent,
		TotalFormatted: checkout.FormatKES(intent.TotalAmount),
		Next:           checkout.PaymentPath,
	}
}
