package repository

import (
	"context"
	"time"

	"gallery-storefront/internal/model"

	"gorm.io/gorm"
)

type PaymentAttemptRepository interface {
	Create(ctx context.Context, attempt *model.PaymentAttempt) error
	MarkInitiated(ctx context.Context, id uint, checkoutRequestID string) error
	UpdateStatus(ctx context.Context, id uint, status model.AttemptStatus, attempts int, reason string) error
	MarkSucceeded(ctx context.Context, id uint, orderID string, attempts int) error
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.PaymentAttempt, error)
	ListByClient(ctx context.Context, clientID string) ([]*model.PaymentAttempt, error)
}

type paymentAttemptRepoImpl struct {
	db *gorm.DB
}

func NewPaymentAttemptRepository(db *gorm.DB) PaymentAttemptRepository {
	return &paymentAttemptRepoImpl{
		db: db,
	}
}

func (r *paymentAttemptRepoImpl) Create(ctx context.Context, attempt *model.PaymentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *paymentAttemptRepoImpl) MarkInitiated(ctx context.Context, id uint, checkoutRequestID string) error {
	return r.update(ctx, id, map[string]interface{}{
		"checkout_request_id": checkoutRequestID,
		"status":              string(model.AttemptProcessing),
		"attempts":            0,
	})
}

func (r *paymentAttemptRepoImpl) UpdateStatus(ctx context.Context, id uint, status model.AttemptStatus, attempts int, reason string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":         string(status),
		"attempts":       attempts,
		"failure_reason": reason,
	})
}

func (r *paymentAttemptRepoImpl) MarkSucceeded(ctx context.Context, id uint, orderID string, attempts int) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":   string(model.AttemptSuccess),
		"order_id": orderID,
		"attempts": attempts,
	})
}

func (r *paymentAttemptRepoImpl) update(ctx context.Context, id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.PaymentAttempt{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *paymentAttemptRepoImpl) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.PaymentAttempt, error) {
	var attempt model.PaymentAttempt
	err := r.db.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&attempt).Error

	if err != nil {
		return nil, err
	}

	return &attempt, nil
}

func (r *paymentAttemptRepoImpl) ListByClient(ctx context.Context, clientID string) ([]*model.PaymentAttempt, error) {
	var attempts []*model.PaymentAttempt
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id DESC").
		Find(&attempts).Error

	if err != nil {
		return nil, err
	}

	return attempts, nil
}
