package repository

import (
	"context"
	"errors"
	"time"

	"gallery-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository stores string values per client and key.
type KVRepository interface {
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID string, keys ...string) error
}

type kvRepoImpl struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) KVRepository {
	return &kvRepoImpl{
		db: db,
	}
}

func (r *kvRepoImpl) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	var entry model.KVEntry
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND `key` = ?", clientID, key).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	return entry.Value, true, nil
}

func (r *kvRepoImpl) Set(ctx context.Context, clientID, key, value string) error {
	entry := &model.KVEntry{
		ClientID: clientID,
		Key:      key,
		Value:    value,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "client_id"}, {Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now(),
		}),
	}).Create(entry).Error
}

func (r *kvRepoImpl) Delete(ctx context.Context, clientID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("client_id = ? AND `key` IN ?", clientID, keys).
		Delete(&model.KVEntry{}).Error
}
