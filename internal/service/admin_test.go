package service_test

import (
	"context"
	"net/http"
	"testing"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adminFixture(t *testing.T) (*fakeGallery, service.AdminService) {
	t.Helper()
	gallery := &fakeGallery{
		auth: &client.AuthResponse{Token: "admin-tok", AdminID: "1"},
		artworks: []*model.Artwork{
			{ID: "1", Title: "Savannah Dusk", Status: model.ArtworkAvailable},
			{ID: "2", Title: "Rift Valley Morning", Status: model.ArtworkSold},
		},
		exhibitions: []*model.Exhibition{
			{ID: "10", Title: "Nairobi Contemporary", TotalSlots: 50, AvailableSlots: 20},
		},
		messages: []*model.ContactMessage{
			{ID: "m1", Name: "Otieno", Status: model.MessageNew},
		},
	}
	sessions := newRegistry(t, gallery)
	ok, err := sessions.Get("admin").AdminLogin(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	return gallery, service.NewAdminService(gallery, sessions, zap.NewNop())
}

func TestAdmin_CreateRefetches(t *testing.T) {
	gallery, svc := adminFixture(t)

	artworks, err := svc.CreateArtwork(context.Background(), "admin", &model.Artwork{Title: "Lamu Doors"})
	require.NoError(t, err)
	assert.Len(t, artworks, 3)
	assert.Equal(t, "Lamu Doors", artworks[2].Title)
	assert.Equal(t, 1, gallery.listCalls)
	assert.Equal(t, []string{"admin-tok"}, gallery.seenTokens)
}

func TestAdmin_FailedMutationDoesNotRefetch(t *testing.T) {
	gallery, svc := adminFixture(t)
	gallery.mutateErr = apperror.New(http.StatusBadRequest, "title already exists", nil)

	artworks, err := svc.CreateArtwork(context.Background(), "admin", &model.Artwork{Title: "Savannah Dusk"})
	require.Error(t, err)
	assert.Nil(t, artworks)
	assert.Equal(t, "title already exists", apperror.Message(err))
	assert.Zero(t, gallery.listCalls)
}

func TestAdmin_DeleteRequiresConfirmation(t *testing.T) {
	gallery, svc := adminFixture(t)

	_, err := svc.DeleteArtwork(context.Background(), "admin", "1", false)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
	assert.Len(t, gallery.artworks, 2)
	assert.Empty(t, gallery.seenTokens)

	artworks, err := svc.DeleteArtwork(context.Background(), "admin", "1", true)
	require.NoError(t, err)
	require.Len(t, artworks, 1)
	assert.Equal(t, model.ID("2"), artworks[0].ID)
}

func TestAdmin_UpdateExhibitionKeepsID(t *testing.T) {
	_, svc := adminFixture(t)

	exhibitions, err := svc.UpdateExhibition(context.Background(), "admin", "10", &model.Exhibition{Title: "Nairobi Contemporary II"})
	require.NoError(t, err)
	require.Len(t, exhibitions, 1)
	assert.Equal(t, model.ID("10"), exhibitions[0].ID)
	assert.Equal(t, "Nairobi Contemporary II", exhibitions[0].Title)
}

func TestAdmin_OrdersOfflineFallback(t *testing.T) {
	gallery, svc := adminFixture(t)
	gallery.ordersErr = apperror.Upstream("network error. please try again", nil)

	resp, err := svc.ListOrders(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, resp.Offline)
	require.Len(t, resp.Orders, 3)
	assert.Equal(t, model.ID("ord-001"), resp.Orders[0].ID)
	assert.Equal(t, model.PaymentPending, resp.Orders[1].PaymentStatus)
}

func TestAdmin_OrdersOnline(t *testing.T) {
	gallery, svc := adminFixture(t)

	resp, err := svc.ListOrders(context.Background(), "admin")
	require.NoError(t, err)
	assert.False(t, resp.Offline)
	assert.NotNil(t, resp.Orders)
	assert.Empty(t, resp.Orders)

	gallery.orders = []*model.Order{{ID: "o9", Amount: 46000}}
	resp, err = svc.ListOrders(context.Background(), "admin")
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 1)
}

func TestAdmin_UpdateMessageStatus(t *testing.T) {
	_, svc := adminFixture(t)

	messages, err := svc.UpdateMessageStatus(context.Background(), "admin", "m1", model.MessageReplied)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, model.MessageReplied, messages[0].Status)

	_, err = svc.UpdateMessageStatus(context.Background(), "admin", "m1", "archived")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
}
