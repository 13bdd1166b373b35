package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
)

type AuthService struct {
	Users  UserStore
	Hasher CredentialVerifier
}

func NewAuthService(users UserStore, hasher CredentialVerifier) *AuthService {
	return &AuthService{Users: users, Hasher: hasher}
}

// Register creates an account. An empty role means customer; anything other
// than admin or customer is rejected.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if role == "" {
		role = models.RoleCustomer
	}
	if !models.ValidRole(role) {
		l.Warn("register_rejected", "reason", "invalid role", "role", role)
		return nil, ErrInvalidRole
	}

	pwHash, err := s.Hasher.Hash(password)
	if errors.Is(err, ErrPasswordTooLong) {
		l.Warn("register_rejected", "reason", "password too long", "username", username)
		return nil, err
	}
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExist) {
			l.Warn("register_rejected", "reason", "duplicate username", "username", username)
			return nil, err
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	l.Info("register_success", "username", username, "role", role)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.Users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.Warn("login_failed", "reason", "unknown user", "username", username)
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}
	if !s.Hasher.Verify(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password", "username", username)
		return nil, ErrInvalidCredentials
	}

	l.Info("login_success", "username", username, "role", user.Role)
	return user, nil
}
