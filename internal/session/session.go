// Package session holds a client's login state. A Session is the single place
// that reads or writes the persisted token, and it tells subscribers when the
// client logs in or out.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/localstore"
	"gallery-storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type EventKind int

const (
	LoggedIn EventKind = iota + 1
	LoggedOut
)

func (k EventKind) String() string {
	switch k {
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	}
	return "unknown"
}

type LogoutReason string

const (
	ReasonExplicit LogoutReason = "explicit"
	ReasonExpired  LogoutReason = "expired"
)

type Event struct {
	Kind     EventKind
	ClientID string
	User     *model.User
	Reason   LogoutReason
}

// Authenticator is the part of the backend a session logs in against.
type Authenticator interface {
	Login(ctx context.Context, req *client.LoginRequest) (*client.AuthResponse, error)
	AdminLogin(ctx context.Context, req *client.LoginRequest) (*client.AuthResponse, error)
	Signup(ctx context.Context, req *client.SignupRequest) (*client.AuthResponse, error)
	Register(ctx context.Context, req *client.SignupRequest) (*client.AuthResponse, error)
}

// Session implements client.Credentials for its client.
type Session struct {
	store *localstore.Store
	auth  Authenticator
	log   *zap.Logger

	mu      sync.Mutex
	subs    map[int]func(Event)
	nextSub int
	relay   func(Event)
}

func New(store *localstore.Store, auth Authenticator, log *zap.Logger) *Session {
	return &Session{
		store: store,
		auth:  auth,
		log:   log.With(zap.String("client_id", store.ClientID())),
		subs:  make(map[int]func(Event)),
	}
}

func (s *Session) ClientID() string {
	return s.store.ClientID()
}

// Store exposes the client-local keys that are not session keys, such as the
// staged order intent.
func (s *Session) Store() *localstore.Store {
	return s.store
}

// Login reports false when the backend rejects the credentials. An error is
// returned only when the backend could not be reached or the result could not
// be stored.
func (s *Session) Login(ctx context.Context, email, password string) (bool, error) {
	resp, err := s.auth.Login(ctx, &client.LoginRequest{Email: email, Password: password})
	return s.complete(ctx, "login", resp, err, email, false)
}

func (s *Session) AdminLogin(ctx context.Context, email, password string) (bool, error) {
	resp, err := s.auth.AdminLogin(ctx, &client.LoginRequest{Email: email, Password: password})
	return s.complete(ctx, "admin login", resp, err, email, true)
}

func (s *Session) Signup(ctx context.Context, req *client.SignupRequest) (bool, error) {
	resp, err := s.auth.Signup(ctx, req)
	if err == nil && resp != nil && resp.Name == "" {
		resp.Name = req.Name
	}
	return s.complete(ctx, "signup", resp, err, req.Email, false)
}

func (s *Session) Register(ctx context.Context, req *client.SignupRequest) (bool, error) {
	resp, err := s.auth.Register(ctx, req)
	if err == nil && resp != nil && resp.Name == "" {
		resp.Name = req.Name
	}
	return s.complete(ctx, "register", resp, err, req.Email, false)
}

func (s *Session) complete(ctx context.Context, op string, resp *client.AuthResponse, err error, email string, isAdmin bool) (bool, error) {
	if err != nil {
		if rejected(err) {
			s.log.Info(op+" rejected", zap.String("email", email), zap.Error(err))
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || resp.Token == "" {
		s.log.Info(op+" returned no token", zap.String("email", email))
		return false, nil
	}

	data := sessionData(resp, email, isAdmin)
	if err := s.store.SetSession(ctx, data); err != nil {
		return false, fmt.Errorf("%s: persist session: %w", op, err)
	}

	s.log.Info(op+" successful", zap.String("user_id", data.UserID.String()), zap.Bool("is_admin", isAdmin))
	s.emit(Event{Kind: LoggedIn, ClientID: s.ClientID(), User: data.User})
	return true, nil
}

// rejected reports whether the backend answered and said no, as opposed to
// not answering at all.
func rejected(err error) bool {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= http.StatusBadRequest && appErr.Code < http.StatusInternalServerError
}

func sessionData(resp *client.AuthResponse, email string, isAdmin bool) *localstore.SessionData {
	user := &model.User{Email: email}
	if resp.User != nil {
		u := *resp.User
		user = &u
		if user.Email == "" {
			user.Email = email
		}
	}

	claims := tokenClaims(resp.Token)

	userID := resp.UserID
	if isAdmin && resp.AdminID != "" {
		userID = resp.AdminID
	}
	if userID == "" {
		userID = user.ID
	}
	if userID == "" {
		userID = claims.subject
	}

	name := resp.Name
	if name == "" {
		name = user.Name
	}
	if name == "" {
		name = claims.name
	}

	user.ID = userID
	user.Name = name
	user.IsAdmin = isAdmin

	data := &localstore.SessionData{
		Token:   resp.Token,
		User:    user,
		UserID:  userID,
		Name:    name,
		IsAdmin: isAdmin,
	}
	if isAdmin {
		data.AdminID = userID
	}
	return data
}

type claimSet struct {
	subject model.ID
	name    string
	isAdmin bool
}

// tokenClaims reads the backend token's claims without verifying it. The
// storefront never holds the signing key; the claims only fill gaps in the
// login response.
func tokenClaims(token string) claimSet {
	var out claimSet
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return out
	}

	switch sub := claims["sub"].(type) {
	case string:
		out.subject = model.ID(sub)
	case float64:
		out.subject = model.ID(strconv.FormatFloat(sub, 'f', -1, 64))
	}
	if name, ok := claims["name"].(string); ok {
		out.name = name
	}
	if admin, ok := claims["is_admin"].(bool); ok {
		out.isAdmin = admin
	}
	return out
}

// Logout clears every persisted key. Calling it when logged out is a no-op apart
// from the event.
func (s *Session) Logout(ctx context.Context) error {
	return s.logout(ctx, ReasonExplicit)
}

func (s *Session) logout(ctx context.Context, reason LogoutReason) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info("logged out", zap.String("reason", string(reason)))
	s.emit(Event{Kind: LoggedOut, ClientID: s.ClientID(), Reason: reason})
	return nil
}

func (s *Session) Token(ctx context.Context) (string, error) {
	return s.store.Token(ctx)
}

// Expire is the logout forced by a 401 from the backend.
func (s *Session) Expire(ctx context.Context) error {
	return s.logout(context.WithoutCancel(ctx), ReasonExpired)
}

func (s *Session) Authenticated(ctx context.Context) (bool, error) {
	token, err := s.store.Token(ctx)
	return token != "", err
}

// IsAdmin reports the persisted admin marker. A token whose claims carry
// is_admin is also accepted when the marker is missing.
func (s *Session) IsAdmin(ctx context.Context) (bool, error) {
	admin, err := s.store.IsAdmin(ctx)
	if err != nil || admin {
		return admin, err
	}
	token, err := s.store.Token(ctx)
	if err != nil || token == "" {
		return false, err
	}
	return tokenClaims(token).isAdmin, nil
}

// User returns the logged-in user, or nil.
func (s *Session) User(ctx context.Context) (*model.User, error) {
	token, err := s.store.Token(ctx)
	if err != nil || token == "" {
		return nil, err
	}

	user, err := s.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &model.User{}
	}
	if user.ID == "" {
		if user.ID, err = s.store.UserID(ctx); err != nil {
			return nil, err
		}
	}
	if user.Name == "" {
		if user.Name, err = s.store.UserName(ctx); err != nil {
			return nil, err
		}
	}
	if user.IsAdmin, err = s.IsAdmin(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Subscribe registers fn for login and logout events of this session and
// returns the function that removes it.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) emit(e Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs)+1)
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	if s.relay != nil {
		fns = append(fns, s.relay)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
