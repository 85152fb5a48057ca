package service

import (
	"errors"
	"strings"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/google/uuid"
)

// UserService handles user identity logic. Identity is a bare username; the
// first login for an unknown username registers it.
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register returns the user for a username, creating it on first sight.
// Usernames are case-insensitive and stored lowercase.
func (s *UserService) Register(username, displayName string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.ErrUsernameRequired
	}
	if len(username) > domain.MaxUsernameLength {
		return nil, domain.ErrUsernameTooLong
	}

	user, err := s.userRepo.GetByUsername(username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	return s.userRepo.Create(&domain.User{
		Username:    username,
		DisplayName: displayName,
	})
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}
