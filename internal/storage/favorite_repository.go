package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/product-scanner/internal/errors"
	"github.com/product-scanner/internal/models"
)

// FavoriteRepository persists user favorites. Each row embeds a full product
// snapshot as a JSONB document; there is no reference back to a live catalog
// entry, so later changes to the upstream product do not propagate.
type FavoriteRepository struct {
	db *PostgresDB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *PostgresDB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create stores a favorite and returns it with its assigned ID
func (r *FavoriteRepository) Create(ctx context.Context, userID string, product *models.Product) (*models.Favorite, error) {
	favorite := &models.Favorite{
		ID:      uuid.New().String(),
		UserID:  userID,
		Product: *product,
		AddedAt: time.Now(),
	}

	productJSON, err := json.Marshal(favorite.Product)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	query := `
		INSERT INTO favorites (id, user_id, product, added_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.db.Pool().Exec(ctx, query,
		favorite.ID,
		favorite.UserID,
		productJSON,
		favorite.AddedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	return favorite, nil
}

// Delete removes a favorite owned by the given user. Deleting a favorite that
// does not exist (or belongs to another user) is reported as not found.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, favoriteID string) error {
	query := `DELETE FROM favorites WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Pool().Exec(ctx, query, favoriteID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("favorite", favoriteID)
	}

	return nil
}

// ListByUser returns a user's favorites, newest first
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	query := `
		SELECT id, user_id, product, added_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]*models.Favorite, 0)
	for rows.Next() {
		var favorite models.Favorite
		var productJSON []byte

		if err := rows.Scan(&favorite.ID, &favorite.UserID, &productJSON, &favorite.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		if err := json.Unmarshal(productJSON, &favorite.Product); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product: %w", err)
		}

		favorites = append(favorites, &favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return favorites, nil
}

// CountByUser returns the number of favorites a user has
func (r *FavoriteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
