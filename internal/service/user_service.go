package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/product-scanner/internal/models"
	"github.com/product-scanner/internal/types"
)

// UserStore defines the user persistence operations
type UserStore interface {
	Create(ctx context.Context, email string, tier types.UserTier) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserService manages user accounts
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates a user account. An empty tier defaults to the free tier.
func (s *UserService) Register(ctx context.Context, email string, tier types.UserTier) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if tier == "" {
		tier = types.TierFree
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}
	return s.users.Create(ctx, email, tier)
}

// GetByID returns the user with the given id
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.users.GetByID(ctx, id)
}
