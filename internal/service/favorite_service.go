package service

import (
	"context"
	"fmt"

	"github.com/product-scanner/internal/models"
)

// FavoriteStore defines the favorite persistence operations
type FavoriteStore interface {
	Create(ctx context.Context, userID string, product *models.Product) (*models.Favorite, error)
	Delete(ctx context.Context, userID, favoriteID string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// FavoriteService manages the user's saved products. Each favorite embeds a
// full snapshot of the product as seen at save time, so stored entries never
// change when the upstream database updates. Saving the same product twice
// creates two independent entries.
type FavoriteService struct {
	favorites FavoriteStore
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favorites FavoriteStore) *FavoriteService {
	return &FavoriteService{favorites: favorites}
}

// Add saves a product snapshot to the user's favorites
func (s *FavoriteService) Add(ctx context.Context, userID string, product *models.Product) (*models.Favorite, error) {
	if product == nil || product.Name == "" {
		return nil, fmt.Errorf("product with a name is required")
	}
	return s.favorites.Create(ctx, userID, product)
}

// Remove deletes a favorite owned by the user
func (s *FavoriteService) Remove(ctx context.Context, userID, favoriteID string) error {
	if favoriteID == "" {
		return fmt.Errorf("favorite id is required")
	}
	return s.favorites.Delete(ctx, userID, favoriteID)
}

// List returns the user's favorites, newest first
func (s *FavoriteService) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}
