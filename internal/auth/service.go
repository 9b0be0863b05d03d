package auth

import (
	"context"
	"errors"
	"strings"

	"restoran-pos/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found or inactive")
	ErrWrongPassword = errors.New("incorrect password")
)

// UserFinder looks up active users. Both methods return (nil, nil) when the
// user does not exist or has been deactivated.
type UserFinder interface {
	FindActiveByUsername(ctx context.Context, username string) (*models.User, error)
	FindActive(ctx context.Context, id uint) (*models.User, error)
}

type Service struct {
	users UserFinder
}

func NewService(users UserFinder) *Service {
	return &Service{users: users}
}

// Authenticate checks username and password. There is no lockout or rate limiting.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.FindActiveByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return u, nil
}
