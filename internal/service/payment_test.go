package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/config"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/payment"
	"gallery-storefront/internal/repository"
	"gallery-storefront/internal/service"
	"gallery-storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func paymentFixture(t *testing.T) (*session.Registry, service.PaymentService) {
	t.Helper()
	return paymentFixtureWith(t, &fakeGallery{}, 0)
}

func paymentFixtureWith(t *testing.T, gallery *fakeGallery, retention time.Duration) (*session.Registry, service.PaymentService) {
	t.Helper()
	db := newDB(t)
	sessions := session.NewRegistry(repository.NewKVRepository(db), gallery, zap.NewNop())
	svc := service.NewPaymentService(gallery, sessions, repository.NewPaymentAttemptRepository(db), &config.Mpesa{
		CallbackURL:     "https://example.com/callback",
		PollInterval:    5 * time.Millisecond,
		MaxPollAttempts: 1000,
		FinalizeTimeout: time.Second,
		Retention:       retention,
	}, zap.NewNop())
	t.Cleanup(svc.Close)
	return sessions, svc
}

func stageIntent(t *testing.T, sessions *session.Registry, clientID string) {
	t.Helper()
	require.NoError(t, sessions.Get(clientID).Store().SavePendingOrder(context.Background(), &model.OrderIntent{
		Type:        model.ItemTypeArtwork,
		ItemID:      "1",
		Title:       "Savannah Dusk",
		TotalAmount: 46000,
	}))
}

func waitForStatus(t *testing.T, svc service.PaymentService, clientID string, want payment.Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := svc.Status(context.Background(), clientID)
		return err == nil && resp.Status == want && !resp.Active
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPayment_StatusWithoutWorkflow(t *testing.T) {
	_, svc := paymentFixture(t)

	resp, err := svc.Status(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, resp.Status)
	assert.False(t, resp.Active)
}

func TestPayment_SubmitWithoutIntent(t *testing.T) {
	_, svc := paymentFixture(t)

	_, err := svc.Submit(context.Background(), "c1", "0712345678")
	require.ErrorIs(t, err, payment.ErrNoIntent)
}

func TestPayment_LogoutTearsDownWorkflow(t *testing.T) {
	ctx := context.Background()
	sessions, svc := paymentFixture(t)

	store := sessions.Get("c1").Store()
	require.NoError(t, store.SavePendingOrder(ctx, &model.OrderIntent{
		Type:        model.ItemTypeArtwork,
		ItemID:      "1",
		Title:       "Savannah Dusk",
		TotalAmount: 46000,
	}))

	resp, err := svc.Submit(ctx, "c1", "0712345678")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusProcessing, resp.Status)
	assert.True(t, resp.Active)

	require.NoError(t, sessions.Get("c1").Logout(ctx))

	resp, err = svc.Status(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, resp.Status)
	assert.False(t, resp.Active)

	history, err := svc.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ws_CO_1", history[0].CheckoutRequestID)
}

func TestPayment_FinishedWorkflowDroppedAfterRetention(t *testing.T) {
	ctx := context.Background()
	gallery := &fakeGallery{status: &client.StatusResponse{ResultCode: "1032", ResultDesc: "Request cancelled by user"}}
	sessions, svc := paymentFixtureWith(t, gallery, 30*time.Millisecond)
	stageIntent(t, sessions, "c1")

	_, err := svc.Submit(ctx, "c1", "0712345678")
	require.NoError(t, err)
	waitForStatus(t, svc, "c1", payment.StatusFailed)

	waitForStatus(t, svc, "c1", payment.StatusPending)
	_, err = svc.TryAgain(ctx, "c1")
	assert.ErrorIs(t, err, payment.ErrNotRetrying)
}

func TestPayment_FinishedWorkflowKeptWithoutRetention(t *testing.T) {
	ctx := context.Background()
	gallery := &fakeGallery{status: &client.StatusResponse{ResultCode: "1032", ResultDesc: "Request cancelled by user"}}
	sessions, svc := paymentFixtureWith(t, gallery, 0)
	stageIntent(t, sessions, "c1")

	_, err := svc.Submit(ctx, "c1", "0712345678")
	require.NoError(t, err)
	waitForStatus(t, svc, "c1", payment.StatusFailed)

	time.Sleep(20 * time.Millisecond)
	resp, err := svc.Status(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, resp.Status)
	assert.Equal(t, "Request cancelled by user", resp.Reason)
}

func TestPayment_SubmitAfterConfirmedFailure(t *testing.T) {
	ctx := context.Background()
	gallery := &fakeGallery{
		status:      &client.StatusResponse{ResultCode: "0"},
		finalizeErr: errors.New("backend unavailable"),
	}
	sessions, svc := paymentFixtureWith(t, gallery, 0)
	stageIntent(t, sessions, "c1")

	_, err := svc.Submit(ctx, "c1", "0712345678")
	require.NoError(t, err)
	waitForStatus(t, svc, "c1", payment.StatusFailed)

	_, err = svc.Submit(ctx, "c1", "0712345678")
	require.ErrorIs(t, err, payment.ErrConfirmed)

	resp, err := svc.Status(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, resp.PaymentConfirmed)
	assert.False(t, resp.CanRetry)
}

func TestPayment_AttemptIsScopedToClient(t *testing.T) {
	ctx := context.Background()
	sessions, svc := paymentFixture(t)
	stageIntent(t, sessions, "c1")

	_, err := svc.Submit(ctx, "c1", "0712345678")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		attempt, err := svc.Attempt(ctx, "c1", "ws_CO_1")
		return err == nil && attempt.Status == string(model.AttemptProcessing)
	}, 2*time.Second, 5*time.Millisecond)

	_, err = svc.Attempt(ctx, "c2", "ws_CO_1")
	assert.Equal(t, http.StatusNotFound, apperror.Code(err))

	_, err = svc.Attempt(ctx, "c1", "ws_CO_missing")
	assert.Equal(t, http.StatusNotFound, apperror.Code(err))
}
