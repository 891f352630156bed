package repository_test

import (
	"context"
	"testing"

	"gallery-storefront/internal/model"
	"gallery-storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPaymentAttempt_Lifecycle(t *testing.T) {
	repo := repository.NewPaymentAttemptRepository(setupDB(t))
	ctx := context.Background()

	attempt := &model.PaymentAttempt{
		ClientID:    "client-a",
		ItemType:    string(model.ItemTypeArtwork),
		ItemID:      "7",
		PhoneNumber: "254712345678",
		Amount:      46000,
		Status:      string(model.AttemptInitiated),
	}
	require.NoError(t, repo.Create(ctx, attempt))
	require.NotZero(t, attempt.ID)

	require.NoError(t, repo.MarkInitiated(ctx, attempt.ID, "ws_CO_123"))
	require.NoError(t, repo.MarkSucceeded(ctx, attempt.ID, "42", 1))

	got, err := repo.FindByCheckoutRequestID(ctx, "ws_CO_123")
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptSuccess), got.Status)
	assert.Equal(t, "42", got.OrderID)
	assert.Equal(t, 1, got.Attempts)
}

func TestPaymentAttempt_UpdateUnknown(t *testing.T) {
	repo := repository.NewPaymentAttemptRepository(setupDB(t))

	err := repo.UpdateStatus(context.Background(), 999, model.AttemptFailed, 3, "cancelled")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentAttempt_ListByClient(t *testing.T) {
	repo := repository.NewPaymentAttemptRepository(setupDB(t))
	ctx := context.Background()

	for _, client := range []string{"a", "b", "a"} {
		require.NoError(t, repo.Create(ctx, &model.PaymentAttempt{
			ClientID:    client,
			ItemType:    "exhibition",
			ItemID:      "3",
			PhoneNumber: "254712345678",
			Amount:      4500,
			Status:      string(model.AttemptInitiated),
		}))
	}

	attempts, err := repo.ListByClient(ctx, "a")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Greater(t, attempts[0].ID, attempts[1].ID)
}
