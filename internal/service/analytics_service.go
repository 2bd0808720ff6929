package service

import (
	"context"
	"fmt"

	"github.com/product-scanner/internal/models"
)

// AnalyticsService derives per-user scanning statistics from the full scan
// history. Aggregates are computed on demand rather than maintained
// incrementally, so they are always consistent with the history itself.
type AnalyticsService struct {
	scans     ScanStore
	favorites FavoriteStore
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(scans ScanStore, favorites FavoriteStore) *AnalyticsService {
	return &AnalyticsService{scans: scans, favorites: favorites}
}

// ForUser computes the analytics summary for a user
func (s *AnalyticsService) ForUser(ctx context.Context, userID string) (*models.UserAnalytics, error) {
	records, err := s.scans.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan history: %w", err)
	}

	favoriteCount, err := s.favorites.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	return ComputeAnalytics(records, favoriteCount), nil
}

// ComputeAnalytics aggregates scan records into a user analytics summary.
// Category keys are taken verbatim from the stored snapshots, with scans that
// carry no category grouped under the literal label "Unknown". Monthly keys
// use the scan timestamp's year and zero-padded month, "YYYY-MM".
func ComputeAnalytics(records []*models.ScanRecord, favoriteCount int) *models.UserAnalytics {
	analytics := &models.UserAnalytics{
		TotalScans:        len(records),
		CategoriesScanned: make(map[string]int),
		MonthlyScans:      make(map[string]int),
		FavoriteCount:     favoriteCount,
	}

	for _, record := range records {
		analytics.CategoriesScanned[record.Product.CategoryOrUnknown()]++

		monthKey := fmt.Sprintf("%04d-%02d", record.ScannedAt.Year(), int(record.ScannedAt.Month()))
		analytics.MonthlyScans[monthKey]++
	}

	return analytics
}
