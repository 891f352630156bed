// Package localstore is the per-client state a browser would keep in local
// storage: the session token, the cached profile and the staged order intent.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gallery-storefront/internal/model"
	"gallery-storefront/internal/repository"
)

const (
	KeyToken        = "token"
	KeyUser         = "user"
	KeyIsAdmin      = "isAdmin"
	KeyUserID       = "userId"
	KeyAdminID      = "adminId"
	KeyPendingOrder = "pendingOrder"
	KeyUserName     = "userName"
)

// AllKeys is everything logout clears.
var AllKeys = []string{
	KeyToken,
	KeyUser,
	KeyIsAdmin,
	KeyUserID,
	KeyAdminID,
	KeyPendingOrder,
	KeyUserName,
}

// Store is the client-local state of one client id.
type Store struct {
	repo     repository.KVRepository
	clientID string
}

func New(repo repository.KVRepository, clientID string) *Store {
	return &Store{
		repo:     repo,
		clientID: clientID,
	}
}

func (s *Store) ClientID() string {
	return s.clientID
}

// SessionData is what a successful login persists.
type SessionData struct {
	Token   string
	User    *model.User
	UserID  model.ID
	AdminID model.ID
	Name    string
	IsAdmin bool
}

func (s *Store) SetSession(ctx context.Context, data *SessionData) error {
	userJSON, err := json.Marshal(data.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	values := map[string]string{
		KeyToken:    data.Token,
		KeyUser:     string(userJSON),
		KeyIsAdmin:  strconv.FormatBool(data.IsAdmin),
		KeyUserID:   data.UserID.String(),
		KeyUserName: data.Name,
	}
	if data.AdminID != "" {
		values[KeyAdminID] = data.AdminID.String()
	}

	for key, value := range values {
		if err := s.repo.Set(ctx, s.clientID, key, value); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	// A non-admin login must not inherit the previous admin's id.
	if data.AdminID == "" {
		if err := s.repo.Delete(ctx, s.clientID, KeyAdminID); err != nil {
			return fmt.Errorf("clear %s: %w", KeyAdminID, err)
		}
	}
	return nil
}

func (s *Store) Token(ctx context.Context) (string, error) {
	v, _, err := s.repo.Get(ctx, s.clientID, KeyToken)
	return v, err
}

func (s *Store) IsAdmin(ctx context.Context) (bool, error) {
	v, ok, err := s.repo.Get(ctx, s.clientID, KeyIsAdmin)
	if err != nil || !ok {
		return false, err
	}
	return v == "true", nil
}

func (s *Store) UserID(ctx context.Context) (model.ID, error) {
	v, _, err := s.repo.Get(ctx, s.clientID, KeyUserID)
	return model.ID(v), err
}

func (s *Store) UserName(ctx context.Context) (string, error) {
	v, _, err := s.repo.Get(ctx, s.clientID, KeyUserName)
	return v, err
}

// User returns the cached profile, or nil when nobody is logged in.
func (s *Store) User(ctx context.Context) (*model.User, error) {
	v, ok, err := s.repo.Get(ctx, s.clientID, KeyUser)
	if err != nil || !ok || v == "" || v == "null" {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal([]byte(v), &user); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &user, nil
}

// PendingOrder returns the staged intent, or nil when there is none.
func (s *Store) PendingOrder(ctx context.Context) (*model.OrderIntent, error) {
	v, ok, err := s.repo.Get(ctx, s.clientID, KeyPendingOrder)
	if err != nil || !ok {
		return nil, err
	}

	var intent model.OrderIntent
	if err := json.Unmarshal([]byte(v), &intent); err != nil {
		return nil, fmt.Errorf("decode pending order: %w", err)
	}
	return &intent, nil
}

// SavePendingOrder replaces whatever intent was staged before.
func (s *Store) SavePendingOrder(ctx context.Context, intent *model.OrderIntent) error {
	b, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshal pending order: %w", err)
	}
	return s.repo.Set(ctx, s.clientID, KeyPendingOrder, string(b))
}

func (s *Store) ClearPendingOrder(ctx context.Context) error {
	return s.repo.Delete(ctx, s.clientID, KeyPendingOrder)
}

// Clear removes every key of the client.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.clientID, AllKeys...)
}
