package session

import (
	"context"
	"net/http"
	"testing"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/localstore"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeAuth struct {
	resp *client.AuthResponse
	err  error
	seen []string
}

func (f *fakeAuth) Login(_ context.Context, req *client.LoginRequest) (*client.AuthResponse, error) {
	f.seen = append(f.seen, "login:"+req.Email)
	return f.resp, f.err
}

func (f *fakeAuth) AdminLogin(_ context.Context, req *client.LoginRequest) (*client.AuthResponse, error) {
	f.seen = append(f.seen, "admin:"+req.Email)
	return f.resp, f.err
}

func (f *fakeAuth) Signup(_ context.Context, req *client.SignupRequest) (*client.AuthResponse, error) {
	f.seen = append(f.seen, "signup:"+req.Email)
	return f.resp, f.err
}

func (f *fakeAuth) Register(_ context.Context, req *client.SignupRequest) (*client.AuthResponse, error) {
	f.seen = append(f.seen, "register:"+req.Email)
	return f.resp, f.err
}

func newKV(t *testing.T) repository.KVRepository {
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

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestLogin_PersistsSession(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{resp: &client.AuthResponse{Token: "tok", UserID: "12", Name: "Amani"}}
	s := New(localstore.New(newKV(t), "c1"), auth, zap.NewNop())

	var events []Event
	unsubscribe := s.Subscribe(func(e Event) { events = append(events, e) })
	defer unsubscribe()

	ok, err := s.Login(ctx, "amani@example.com", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	user, err := s.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.ID("12"), user.ID)
	assert.Equal(t, "Amani", user.Name)
	assert.Equal(t, "amani@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	require.Len(t, events, 1)
	assert.Equal(t, LoggedIn, events[0].Kind)
	assert.Equal(t, "c1", events[0].ClientID)
}

func TestLogin_RejectedReturnsFalse(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{err: apperror.New(http.StatusUnauthorized, "invalid credentials", nil)}
	s := New(localstore.New(newKV(t), "c1"), auth, zap.NewNop())

	ok, err := s.Login(ctx, "x@example.com", "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	authed, err := s.Authenticated(ctx)
	require.NoError(t, err)
	assert.False(t, authed)
}

func TestLogin_UnreachableBackendIsAnError(t *testing.T) {
	auth := &fakeAuth{err: apperror.Upstream("network error. please try again", nil)}
	s := New(localstore.New(newKV(t), "c1"), auth, zap.NewNop())

	ok, err := s.Login(context.Background(), "x@example.com", "pw")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestAdminLogin_MarksAdminAndRecoversClaims(t *testing.T) {
	ctx := context.Background()
	token := signedToken(t, jwt.MapClaims{"sub": float64(7), "name": "Curator", "is_admin": true})
	auth := &fakeAuth{resp: &client.AuthResponse{Token: token}}
	store := localstore.New(newKV(t), "c1")
	s := New(store, auth, zap.NewNop())

	ok, err := s.AdminLogin(ctx, "curator@example.com", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	admin, err := s.IsAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, admin)

	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ID("7"), user.ID)
	assert.Equal(t, "Curator", user.Name)
	assert.Equal(t, []string{"admin:curator@example.com"}, auth.seen)
}

func TestSignup_UsesSubmittedName(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{resp: &client.AuthResponse{Token: "tok", UserID: "3"}}
	s := New(localstore.New(newKV(t), "c1"), auth, zap.NewNop())

	ok, err := s.Signup(ctx, &client.SignupRequest{Name: "Njeri", Email: "n@example.com", Password: "pw", Phone: "0712345678"})
	require.NoError(t, err)
	require.True(t, ok)

	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Njeri", user.Name)
}

func TestLogout_ClearsEverythingAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(newKV(t), "c1")
	s := New(store, &fakeAuth{resp: &client.AuthResponse{Token: "tok", UserID: "1"}}, zap.NewNop())

	_, err := s.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, store.SavePendingOrder(ctx, &model.OrderIntent{Type: model.ItemTypeArtwork, ItemID: "1"}))

	var reasons []LogoutReason
	s.Subscribe(func(e Event) {
		if e.Kind == LoggedOut {
			reasons = append(reasons, e.Reason)
		}
	})

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))

	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	intent, err := store.PendingOrder(ctx)
	require.NoError(t, err)
	assert.Nil(t, intent)

	assert.Equal(t, []LogoutReason{ReasonExplicit, ReasonExplicit}, reasons)
}

func TestExpire_LogsOutWithExpiredReason(t *testing.T) {
	ctx := context.Background()
	s := New(localstore.New(newKV(t), "c1"), &fakeAuth{resp: &client.AuthResponse{Token: "tok"}}, zap.NewNop())
	_, err := s.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	var got Event
	s.Subscribe(func(e Event) { got = e })

	require.NoError(t, s.Expire(ctx))
	assert.Equal(t, LoggedOut, got.Kind)
	assert.Equal(t, ReasonExpired, got.Reason)

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := New(localstore.New(newKV(t), "c1"), &fakeAuth{}, zap.NewNop())

	calls := 0
	unsubscribe := s.Subscribe(func(Event) { calls++ })
	require.NoError(t, s.Logout(context.Background()))
	unsubscribe()
	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, 1, calls)
}

func TestRegistry_SessionsShareStateAndForwardEvents(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newKV(t), &fakeAuth{resp: &client.AuthResponse{Token: "tok", UserID: "7"}}, zap.NewNop())

	ok, err := reg.Get("a").Login(ctx, "a@example.com", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	authed, err := reg.Get("a").Authenticated(ctx)
	require.NoError(t, err)
	assert.True(t, authed)

	authed, err = reg.Get("b").Authenticated(ctx)
	require.NoError(t, err)
	assert.False(t, authed)

	var clients []string
	reg.Subscribe(func(e Event) { clients = append(clients, e.ClientID) })

	require.NoError(t, reg.Get("b").Logout(ctx))
	assert.Equal(t, []string{"b"}, clients)
}

func TestRegistry_HoldsNoSessions(t *testing.T) {
	reg := NewRegistry(newKV(t), &fakeAuth{}, zap.NewNop())

	for _, id := range []string{"a", "b", "c"} {
		reg.Get(id)
	}
	assert.NotSame(t, reg.Get("a"), reg.Get("a"))
	assert.Empty(t, reg.subs)
}
