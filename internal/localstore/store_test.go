package localstore_test

import (
	"context"
	"testing"

	"gallery-storefront/internal/localstore"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepo(t *testing.T) repository.KVRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.KVEntry{}))
	return repository.NewKVRepository(db)
}

func TestStore_EmptyClient(t *testing.T) {
	ctx := context.Background()
	s := localstore.New(newRepo(t), "c1")

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	intent, err := s.PendingOrder(ctx)
	require.NoError(t, err)
	assert.Nil(t, intent)

	isAdmin, err := s.IsAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestStore_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := localstore.New(newRepo(t), "c1")

	require.NoError(t, s.SetSession(ctx, &localstore.SessionData{
		Token:   "tok",
		User:    &model.User{ID: "5", Name: "Wanjiru", Email: "w@example.com", IsAdmin: true},
		UserID:  "5",
		AdminID: "5",
		Name:    "Wanjiru",
		IsAdmin: true,
	}))

	token, _ := s.Token(ctx)
	assert.Equal(t, "tok", token)
	id, _ := s.UserID(ctx)
	assert.Equal(t, model.ID("5"), id)
	name, _ := s.UserName(ctx)
	assert.Equal(t, "Wanjiru", name)
	isAdmin, _ := s.IsAdmin(ctx)
	assert.True(t, isAdmin)

	user, err := s.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "w@example.com", user.Email)
}

func TestStore_UserLoginClearsAdminID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s := localstore.New(repo, "c1")

	require.NoError(t, s.SetSession(ctx, &localstore.SessionData{
		Token:   "admin-tok",
		UserID:  "5",
		AdminID: "5",
		IsAdmin: true,
	}))
	_, ok, err := repo.Get(ctx, "c1", localstore.KeyAdminID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.SetSession(ctx, &localstore.SessionData{
		Token:  "user-tok",
		UserID: "9",
		Name:   "Otieno",
	}))

	_, ok, err = repo.Get(ctx, "c1", localstore.KeyAdminID)
	require.NoError(t, err)
	assert.False(t, ok)
	isAdmin, err := s.IsAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestStore_PendingOrderIsSingleSlot(t *testing.T) {
	ctx := context.Background()
	s := localstore.New(newRepo(t), "c1")

	require.NoError(t, s.SavePendingOrder(ctx, &model.OrderIntent{Type: model.ItemTypeArtwork, ItemID: "1", TotalAmount: 46000}))
	require.NoError(t, s.SavePendingOrder(ctx, &model.OrderIntent{Type: model.ItemTypeExhibition, ItemID: "2", Slots: 3, TotalAmount: 4500}))

	intent, err := s.PendingOrder(ctx)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, model.ItemTypeExhibition, intent.Type)
	assert.Equal(t, 3, intent.Slots)

	require.NoError(t, s.ClearPendingOrder(ctx))
	intent, err = s.PendingOrder(ctx)
	require.NoError(t, err)
	assert.Nil(t, intent)
}

func TestStore_ClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	a := localstore.New(repo, "a")
	b := localstore.New(repo, "b")

	require.NoError(t, a.SetSession(ctx, &localstore.SessionData{Token: "tok-a"}))
	require.NoError(t, b.SavePendingOrder(ctx, &model.OrderIntent{ItemID: "9"}))

	require.NoError(t, a.Clear(ctx))

	token, _ := a.Token(ctx)
	assert.Empty(t, token)
	intent, err := b.PendingOrder(ctx)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, model.ID("9"), intent.ItemID)
}
