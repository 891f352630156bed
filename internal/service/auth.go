package service

import (
	"context"
	"net/http"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/session"
)

var errInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password", nil)

type AuthService interface {
	Login(ctx context.Context, clientID string, req *dto.LoginRequest) (*dto.SessionResponse, error)
	AdminLogin(ctx context.Context, clientID string, req *dto.LoginRequest) (*dto.SessionResponse, error)
	Signup(ctx context.Context, clientID string, req *dto.SignupRequest) (*dto.SessionResponse, error)
	Register(ctx context.Context, clientID string, req *dto.SignupRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, clientID string) error
	Me(ctx context.Context, clientID string) (*dto.SessionResponse, error)
	IsAdmin(ctx context.Context, clientID string) (bool, error)
}

type authServiceImpl struct {
	sessions *session.Registry
}

func NewAuthService(sessions *session.Registry) AuthService {
	return &authServiceImpl{
		sessions: sessions,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, clientID string, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	sess := s.sessions.Get(clientID)
	ok, err := sess.Login(ctx, req.Email, req.Password)
	return s.result(ctx, sess, ok, err, errInvalidCredentials)
}

func (s *authServiceImpl) AdminLogin(ctx context.Context, clientID string, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	sess := s.sessions.Get(clientID)
	ok, err := sess.AdminLogin(ctx, req.Email, req.Password)
	return s.result(ctx, sess, ok, err, errInvalidCredentials)
}

func (s *authServiceImpl) Signup(ctx context.Context, clientID string, req *dto.SignupRequest) (*dto.SessionResponse, error) {
	sess := s.sessions.Get(clientID)
	ok, err := sess.Signup(ctx, signupRequest(req))
	return s.result(ctx, sess, ok, err, apperror.BusinessRule("signup failed. the email may already be registered"))
}

func (s *authServiceImpl) Register(ctx context.Context, clientID string, req *dto.SignupRequest) (*dto.SessionResponse, error) {
	sess := s.sessions.Get(clientID)
	ok, err := sess.Register(ctx, signupRequest(req))
	return s.result(ctx, sess, ok, err, apperror.BusinessRule("registration failed. the email may already be registered"))
}

func signupRequest(req *dto.SignupRequest) *client.SignupRequest {
	return &client.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}
}

func (s *authServiceImpl) result(ctx context.Context, sess *session.Session, ok bool, err error, refused error) (*dto.SessionResponse, error) {
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, refused
	}
	return describe(ctx, sess)
}

func (s *authServiceImpl) Logout(ctx context.Context, clientID string) error {
	return s.sessions.Get(clientID).Logout(ctx)
}

func (s *authServiceImpl) Me(ctx context.Context, clientID string) (*dto.SessionResponse, error) {
	return describe(ctx, s.sessions.Get(clientID))
}

func (s *authServiceImpl) IsAdmin(ctx context.Context, clientID string) (bool, error) {
	sess := s.sessions.Get(clientID)
	authed, err := sess.Authenticated(ctx)
	if err != nil {
		return false, err
	}
	if !authed {
		return false, apperror.ErrNotLoggedIn
	}
	return sess.IsAdmin(ctx)
}

func describe(ctx context.Context, sess *session.Session) (*dto.SessionResponse, error) {
	user, err := sess.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.SessionResponse{}, nil
	}
	return &dto.SessionResponse{
		Authenticated: true,
		IsAdmin:       user.IsAdmin,
		User:          user,
	}, nil
}
