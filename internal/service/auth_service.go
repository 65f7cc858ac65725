package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmarques/backplan/internal/auth"
	"github.com/tmarques/backplan/internal/models"
)

// Session is what a successful register or login returns: the account plus a
// signed token for subsequent requests.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService handles account registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	users         auth.UserStorage
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, users auth.UserStorage, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account and returns a ready session.
func (s *AuthService) Register(ctx context.Context, name, email, username, password string) (*Session, error) {
	if name == "" || email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email, username and password are required", ErrMissingField)
	}

	user, err := s.authenticator.Register(ctx, name, email, username, password)
	if err != nil {
		s.logger.Warn("registration failed", "email", email, "username", username, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return &Session{User: user, Token: token}, nil
}

// Login authenticates by username or email and returns a session.
func (s *AuthService) Login(ctx context.Context, login, password string) (*Session, error) {
	if login == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, login, password)
	if err != nil {
		s.logger.Warn("login failed", "login", login, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return &Session{User: user, Token: token}, nil
}

// CurrentUser returns the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}
