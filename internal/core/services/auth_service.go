package services

import (
	"context"
	"errors"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/adapters/persistence/repositories"
	"siperu/internal/config"
	"siperu/internal/core/domain"
	"siperu/internal/pkg/jwt"
	"siperu/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles login sessions for the admin panel
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Login verifies credentials and returns the user plus a session token
func (s *AuthService) Login(ctx context.Context, username, plainPassword string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !password.Verify(plainPassword, user.Password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(
		user.UserID,
		user.Username,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
