package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/amiyamandal-dev/newscms/internal/auth"
	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// AuthService authenticates the administrative principal and issues tokens
type AuthService struct {
	credentials auth.CredentialStore
	jwtManager  *auth.JWTManager
	logger      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(credentials auth.CredentialStore, jwtManager *auth.JWTManager, log *logger.Logger) *AuthService {
	return &AuthService{
		credentials: credentials,
		jwtManager:  jwtManager,
		logger:      log.WithComponent("auth-service"),
	}
}

// Login verifies the credentials and issues a signed, time-limited token.
// A wrong username and a wrong password fail with the identical error so
// the response does not leak which check failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	passwordHash, err := s.credentials.Lookup(username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.jwtManager.Generate(username)
	if err != nil {
		s.logger.Error("Failed to generate token", "error", err)
		return nil, err
	}

	s.logger.Info("Admin logged in", "username", username)

	return &domain.LoginResponse{
		Username:    username,
		AccessToken: token,
	}, nil
}
