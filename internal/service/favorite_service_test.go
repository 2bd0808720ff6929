package service

import (
	"context"
	"testing"

	"github.com/product-scanner/internal/models"
)

func TestFavoriteService_AddAndList(t *testing.T) {
	store := &mockFavoriteStore{}
	svc := NewFavoriteService(store)
	ctx := context.Background()

	first, err := svc.Add(ctx, "user-1", sampleProduct("3017620422003"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.ID == "" {
		t.Error("Expected favorite id")
	}

	// The same product saved twice yields two independent entries
	second, err := svc.Add(ctx, "user-1", sampleProduct("3017620422003"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second.ID == first.ID {
		t.Error("Expected duplicate saves to create distinct favorites")
	}

	favorites, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(favorites) != 2 {
		t.Errorf("Expected 2 favorites, got %d", len(favorites))
	}
}

func TestFavoriteService_AddRejectsInvalidProduct(t *testing.T) {
	svc := NewFavoriteService(&mockFavoriteStore{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "user-1", nil); err == nil {
		t.Error("Expected error for nil product")
	}
	if _, err := svc.Add(ctx, "user-1", &models.Product{ID: "p1"}); err == nil {
		t.Error("Expected error for product without a name")
	}
}

func TestFavoriteService_SnapshotIsIsolated(t *testing.T) {
	store := &mockFavoriteStore{}
	svc := NewFavoriteService(store)
	ctx := context.Background()

	product := sampleProduct("3017620422003")
	favorite, err := svc.Add(ctx, "user-1", product)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	product.Name = "Renamed Upstream"
	if favorite.Product.Name != "Crunchy Chips" {
		t.Errorf("Expected stored snapshot to keep its name, got %q", favorite.Product.Name)
	}
}

func TestFavoriteService_Remove(t *testing.T) {
	store := &mockFavoriteStore{}
	svc := NewFavoriteService(store)
	ctx := context.Background()

	favorite, err := svc.Add(ctx, "user-1", sampleProduct("3017620422003"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := svc.Remove(ctx, "user-1", favorite.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := svc.Remove(ctx, "user-1", favorite.ID); err == nil {
		t.Error("Expected error removing an already-removed favorite")
	}
	if err := svc.Remove(ctx, "user-1", ""); err == nil {
		t.Error("Expected error for empty favorite id")
	}
}
