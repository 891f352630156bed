package service_test

import (
	"context"
	"net/http"
	"testing"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckout_StagesArtworkIntent(t *testing.T) {
	gallery := &fakeGallery{artworks: []*model.Artwork{{ID: "1", Title: "Savannah Dusk", Price: 45000, Status: model.ArtworkAvailable}}}
	sessions := newRegistry(t, gallery)
	svc := service.NewCheckoutService(service.NewCatalogService(gallery), sessions, 1000, zap.NewNop())

	resp, err := svc.CheckoutArtwork(context.Background(), "c1", "1", &dto.ArtworkCheckoutRequest{
		Name:            "Amani",
		Email:           "amani@example.com",
		Phone:           "0712345678",
		DeliveryAddress: "Kimathi Street",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(46000), resp.Intent.TotalAmount)
	assert.Equal(t, "KES 46,000", resp.TotalFormatted)
	assert.Equal(t, "/payment", resp.Next)

	pending, err := svc.PendingOrder(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, model.ID("1"), pending.Intent.ItemID)

	require.NoError(t, svc.DiscardPendingOrder(context.Background(), "c1"))
	_, err = svc.PendingOrder(context.Background(), "c1")
	assert.Equal(t, http.StatusNotFound, apperror.Code(err))
}

func TestCheckout_MissingArtwork(t *testing.T) {
	gallery := &fakeGallery{}
	svc := service.NewCheckoutService(service.NewCatalogService(gallery), newRegistry(t, gallery), 1000, zap.NewNop())

	_, err := svc.CheckoutArtwork(context.Background(), "c1", "404", &dto.ArtworkCheckoutRequest{Name: "A", Email: "a@example.com"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.Code(err))
}
