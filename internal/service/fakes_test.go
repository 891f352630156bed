package service_test

import (
	"context"
	"sync"
	"testing"

	"gallery-storefront/internal/client"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/repository"
	"gallery-storefront/internal/session"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeGallery implements the calls the services under test make. Anything
// else panics through the nil embedded interface.
type fakeGallery struct {
	client.GalleryClient

	mu          sync.Mutex
	auth        *client.AuthResponse
	artworks    []*model.Artwork
	exhibitions []*model.Exhibition
	messages    []*model.ContactMessage
	orders      []*model.Order
	tickets     []*model.Ticket
	contacts    []*model.ContactMessage

	ordersErr   error
	mutateErr   error
	contactErr  error
	finalizeErr error
	status      *client.StatusResponse
	listCalls   int
	seenUserIDs []model.ID
	seenTokens  []string
}

func (f *fakeGallery) token(ctx context.Context, creds client.Credentials) {
	tok, _ := creds.Token(ctx)
	f.seenTokens = append(f.seenTokens, tok)
}

func (f *fakeGallery) Login(context.Context, *client.LoginRequest) (*client.AuthResponse, error) {
	return f.auth, nil
}

func (f *fakeGallery) AdminLogin(context.Context, *client.LoginRequest) (*client.AuthResponse, error) {
	return f.auth, nil
}

func (f *fakeGallery) ListArtworks(context.Context) ([]*model.Artwork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]*model.Artwork(nil), f.artworks...), nil
}

func (f *fakeGallery) GetArtwork(_ context.Context, id model.ID) (*model.Artwork, error) {
	for _, a := range f.artworks {
		if a.ID == id {
			return a, nil
		}
	}
	return &model.Artwork{}, nil
}

func (f *fakeGallery) CreateArtwork(ctx context.Context, creds client.Credentials, artwork *model.Artwork) error {
	f.token(ctx, creds)
	if f.mutateErr != nil {
		return f.mutateErr
	}
	artwork.ID = model.ID("new")
	f.artworks = append(f.artworks, artwork)
	return nil
}

func (f *fakeGallery) DeleteArtwork(ctx context.Context, creds client.Credentials, id model.ID) error {
	f.token(ctx, creds)
	if f.mutateErr != nil {
		return f.mutateErr
	}
	kept := f.artworks[:0]
	for _, a := range f.artworks {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	f.artworks = kept
	return nil
}

func (f *fakeGallery) ListExhibitions(context.Context) ([]*model.Exhibition, error) {
	return f.exhibitions, nil
}

func (f *fakeGallery) UpdateExhibition(ctx context.Context, creds client.Credentials, id model.ID, exhibition *model.Exhibition) error {
	f.token(ctx, creds)
	if f.mutateErr != nil {
		return f.mutateErr
	}
	for i, e := range f.exhibitions {
		if e.ID == id {
			f.exhibitions[i] = exhibition
		}
	}
	return nil
}

func (f *fakeGallery) ListMessages(ctx context.Context, creds client.Credentials) ([]*model.ContactMessage, error) {
	f.token(ctx, creds)
	return f.messages, nil
}

func (f *fakeGallery) UpdateMessageStatus(ctx context.Context, creds client.Credentials, id model.ID, status model.MessageStatus) error {
	f.token(ctx, creds)
	for _, m := range f.messages {
		if m.ID == id {
			m.Status = status
		}
	}
	return nil
}

func (f *fakeGallery) AdminListOrders(ctx context.Context, creds client.Credentials) ([]*model.Order, error) {
	f.token(ctx, creds)
	return f.orders, f.ordersErr
}

func (f *fakeGallery) ListOrders(ctx context.Context, creds client.Credentials) ([]*model.Order, error) {
	f.token(ctx, creds)
	return f.orders, nil
}

func (f *fakeGallery) ListUserOrders(ctx context.Context, creds client.Credentials, userID model.ID) ([]*model.Order, error) {
	f.token(ctx, creds)
	f.seenUserIDs = append(f.seenUserIDs, userID)
	return f.orders, nil
}

func (f *fakeGallery) ListUserTickets(ctx context.Context, creds client.Credentials, userID model.ID) ([]*model.Ticket, error) {
	f.token(ctx, creds)
	f.seenUserIDs = append(f.seenUserIDs, userID)
	return f.tickets, nil
}

func (f *fakeGallery) GetOrder(ctx context.Context, creds client.Credentials, id model.ID, _ model.ItemType) (*model.Order, error) {
	f.token(ctx, creds)
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return &model.Order{ID: id}, nil
}

func (f *fakeGallery) GenerateTicket(ctx context.Context, creds client.Credentials, bookingID model.ID) (*model.Ticket, error) {
	f.token(ctx, creds)
	return &model.Ticket{ID: bookingID, TicketCode: "TKT-" + bookingID.String()}, nil
}

func (f *fakeGallery) SubmitContact(_ context.Context, msg *model.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, msg)
	return f.contactErr
}

type fakeRelay struct {
	sent []string
	err  error
}

func (f *fakeRelay) Send(_ context.Context, message string) error {
	f.sent = append(f.sent, message)
	return f.err
}

func (f *fakeGallery) InitiatePush(context.Context, *client.PushRequest) (*client.PushResponse, error) {
	return &client.PushResponse{CheckoutRequestID: "ws_CO_1"}, nil
}

func (f *fakeGallery) CheckStatus(context.Context, string) (*client.StatusResponse, error) {
	if f.status != nil {
		return f.status, nil
	}
	return &client.StatusResponse{ErrorCode: "500.001.1001"}, nil
}

func (f *fakeGallery) FinalizeOrder(context.Context, client.Credentials, *client.FinalizeRequest) (*client.FinalizeResponse, error) {
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	return &client.FinalizeResponse{OrderID: "ord-1"}, nil
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.KVEntry{}, &model.PaymentAttempt{}))
	return db
}

func newKV(t *testing.T) repository.KVRepository {
	return repository.NewKVRepository(newDB(t))
}

func newRegistry(t *testing.T, gallery *fakeGallery) *session.Registry {
	t.Helper()
	return session.NewRegistry(newKV(t), gallery, zap.NewNop())
}
