package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/product-scanner/internal/models"
)

// Mock favorite repository for testing
type mockFavoriteStore struct {
	favorites []*models.Favorite
	deleteErr error
}

func (m *mockFavoriteStore) Create(ctx context.Context, userID string, product *models.Product) (*models.Favorite, error) {
	favorite := &models.Favorite{
		ID:      fmt.Sprintf("fav-%d", len(m.favorites)+1),
		UserID:  userID,
		Product: *product,
		AddedAt: time.Now().UTC(),
	}
	m.favorites = append(m.favorites, favorite)
	return favorite, nil
}

func (m *mockFavoriteStore) Delete(ctx context.Context, userID, favoriteID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, favorite := range m.favorites {
		if favorite.ID == favoriteID && favorite.UserID == userID {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("favorite not found")
}

func (m *mockFavoriteStore) ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	result := make([]*models.Favorite, 0)
	for _, favorite := range m.favorites {
		if favorite.UserID == userID {
			result = append(result, favorite)
		}
	}
	return result, nil
}

func (m *mockFavoriteStore) CountByUser(ctx context.Context, userID string) (int, error) {
	favorites, _ := m.ListByUser(ctx, userID)
	return len(favorites), nil
}

func scanRecordAt(userID, category string, scannedAt time.Time) *models.ScanRecord {
	product := models.Product{
		ID:        "prod-1",
		Name:      "Test Product",
		ScannedAt: scannedAt,
	}
	if category != "" {
		product.Category = &category
	}
	return &models.ScanRecord{
		ID:        "scan-1",
		UserID:    userID,
		Product:   product,
		ScannedAt: scannedAt,
	}
}

func TestComputeAnalytics_CategoryGrouping(t *testing.T) {
	now := time.Now().UTC()
	records := []*models.ScanRecord{}
	for i := 0; i < 3; i++ {
		records = append(records, scanRecordAt("user-1", "Snacks", now))
	}
	for i := 0; i < 5; i++ {
		records = append(records, scanRecordAt("user-1", "Dairy", now))
	}
	records = append(records, scanRecordAt("user-1", "", now))

	analytics := ComputeAnalytics(records, 5)

	if analytics.TotalScans != 9 {
		t.Errorf("Expected 9 total scans, got %d", analytics.TotalScans)
	}
	if analytics.FavoriteCount != 5 {
		t.Errorf("Expected favorite count 5, got %d", analytics.FavoriteCount)
	}
	expected := map[string]int{"Snacks": 3, "Dairy": 5, "Unknown": 1}
	for category, count := range expected {
		if analytics.CategoriesScanned[category] != count {
			t.Errorf("Expected %d scans in %q, got %d", count, category, analytics.CategoriesScanned[category])
		}
	}
	if len(analytics.CategoriesScanned) != len(expected) {
		t.Errorf("Expected %d categories, got %v", len(expected), analytics.CategoriesScanned)
	}
}

func TestComputeAnalytics_CategoriesAreCaseSensitive(t *testing.T) {
	now := time.Now().UTC()
	records := []*models.ScanRecord{
		scanRecordAt("user-1", "snacks", now),
		scanRecordAt("user-1", "Snacks", now),
	}

	analytics := ComputeAnalytics(records, 0)

	if analytics.CategoriesScanned["snacks"] != 1 || analytics.CategoriesScanned["Snacks"] != 1 {
		t.Errorf("Expected distinct buckets for differing case, got %v", analytics.CategoriesScanned)
	}
}

func TestComputeAnalytics_MonthlyGrouping(t *testing.T) {
	records := []*models.ScanRecord{
		scanRecordAt("user-1", "Snacks", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)),
		scanRecordAt("user-1", "Snacks", time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)),
		scanRecordAt("user-1", "Snacks", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		scanRecordAt("user-1", "Snacks", time.Date(2023, 12, 25, 12, 0, 0, 0, time.UTC)),
	}

	analytics := ComputeAnalytics(records, 0)

	if analytics.MonthlyScans["2024-01"] != 2 {
		t.Errorf("Expected 2 scans in 2024-01, got %d", analytics.MonthlyScans["2024-01"])
	}
	if analytics.MonthlyScans["2024-02"] != 1 {
		t.Errorf("Expected 1 scan in 2024-02, got %d", analytics.MonthlyScans["2024-02"])
	}
	if analytics.MonthlyScans["2023-12"] != 1 {
		t.Errorf("Expected 1 scan in 2023-12, got %d", analytics.MonthlyScans["2023-12"])
	}
}

func TestComputeAnalytics_EmptyHistory(t *testing.T) {
	analytics := ComputeAnalytics(nil, 0)

	if analytics.TotalScans != 0 {
		t.Errorf("Expected 0 total scans, got %d", analytics.TotalScans)
	}
	if analytics.CategoriesScanned == nil || analytics.MonthlyScans == nil {
		t.Error("Expected empty maps, not nil")
	}
	if len(analytics.CategoriesScanned) != 0 || len(analytics.MonthlyScans) != 0 {
		t.Errorf("Expected empty aggregates, got %+v", analytics)
	}
}

func TestAnalyticsService_ForUser(t *testing.T) {
	scans := &mockScanStore{}
	favorites := &mockFavoriteStore{}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := scans.Create(ctx, "user-1", sampleProduct(fmt.Sprintf("barcode-%d", i))); err != nil {
			t.Fatalf("Failed to seed scan: %v", err)
		}
	}
	if _, err := scans.Create(ctx, "user-2", sampleProduct("other-user")); err != nil {
		t.Fatalf("Failed to seed scan: %v", err)
	}
	if _, err := favorites.Create(ctx, "user-1", sampleProduct("barcode-0")); err != nil {
		t.Fatalf("Failed to seed favorite: %v", err)
	}

	svc := NewAnalyticsService(scans, favorites)
	analytics, err := svc.ForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if analytics.TotalScans != 3 {
		t.Errorf("Expected 3 scans for user-1, got %d", analytics.TotalScans)
	}
	if analytics.FavoriteCount != 1 {
		t.Errorf("Expected 1 favorite, got %d", analytics.FavoriteCount)
	}
}
