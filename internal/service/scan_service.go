// Package service implements the scanner's application services on top of the
// adapter clients and storage repositories.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/product-scanner/internal/logging"
	"github.com/product-scanner/internal/models"
	"github.com/product-scanner/internal/types"
)

// ProductLookup defines the nutrition database operations the scan service needs
type ProductLookup interface {
	GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	SearchProductsByName(ctx context.Context, name, category string) ([]*models.Product, error)
}

// ProductIdentifier defines the AI identification operation
type ProductIdentifier interface {
	IdentifyProductFromImage(ctx context.Context, imageJPEG []byte) (*models.Identification, error)
}

// ScanStore defines the scan history persistence operations
type ScanStore interface {
	Create(ctx context.Context, userID string, product *models.Product) (*models.ScanRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.ScanRecord, error)
	ListAllByUser(ctx context.Context, userID string) ([]*models.ScanRecord, error)
}

// LookupCache defines the barcode lookup cache operations
type LookupCache interface {
	GetProduct(ctx context.Context, barcode string) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product) error
}

// ScanService resolves barcodes and photos into normalized products and appends
// the results to the user's scan history.
type ScanService struct {
	lookup     ProductLookup
	identifier ProductIdentifier
	scans      ScanStore
	cache      LookupCache
	logger     *logging.Logger
}

// NewScanService creates a new scan service. The cache is optional: a nil
// cache means every lookup goes straight to the nutrition database.
func NewScanService(
	lookup ProductLookup,
	identifier ProductIdentifier,
	scans ScanStore,
	cache LookupCache,
	logger *logging.Logger,
) *ScanService {
	return &ScanService{
		lookup:     lookup,
		identifier: identifier,
		scans:      scans,
		cache:      cache,
		logger:     logger,
	}
}

// LookupBarcode resolves a barcode to a product and records the scan.
// A miss returns (nil, nil): the caller is expected to offer the photo
// identification fallback. A failed history write is logged but does not fail
// the lookup - the user already saw the product, so analytics may under-count.
// There is no transaction boundary across the lookup/persist sequence.
func (s *ScanService) LookupBarcode(ctx context.Context, userID, barcode string) (*models.Product, error) {
	if barcode == "" {
		return nil, fmt.Errorf("barcode is required")
	}

	product, cached := s.cachedProduct(ctx, barcode)
	if !cached {
		var err error
		product, err = s.lookup.GetProductByBarcode(ctx, barcode)
		if err != nil {
			return nil, fmt.Errorf("barcode lookup failed: %w", err)
		}
		if product == nil {
			return nil, nil
		}

		if s.cache != nil {
			if err := s.cache.SetProduct(ctx, product); err != nil {
				s.logger.WithError(err).Warn("Failed to cache product lookup")
			}
		}
	}

	s.recordScan(ctx, userID, product)
	return product, nil
}

// IdentifyFromImage identifies a product from a photo and records the scan.
// The returned product carries a synthetic UUID, not a barcode. A low-confidence
// or failed identification yields (nil, nil).
func (s *ScanService) IdentifyFromImage(ctx context.Context, userID string, imageJPEG []byte) (*models.Product, error) {
	if len(imageJPEG) == 0 {
		return nil, fmt.Errorf("image is required")
	}

	identification, err := s.identifier.IdentifyProductFromImage(ctx, imageJPEG)
	if err != nil {
		return nil, err
	}
	if identification == nil {
		return nil, nil
	}

	product := productFromIdentification(identification)
	s.recordScan(ctx, userID, product)
	return product, nil
}

// SearchProducts searches the nutrition database by free text. Search hits are
// not recorded as scans.
func (s *ScanService) SearchProducts(ctx context.Context, name, category string) ([]*models.Product, error) {
	if name == "" {
		return nil, fmt.Errorf("search query is required")
	}
	return s.lookup.SearchProductsByName(ctx, name, category)
}

// History returns the user's most recent scans, newest first
func (s *ScanService) History(ctx context.Context, userID string, limit int) ([]*models.ScanRecord, error) {
	return s.scans.ListByUser(ctx, userID, limit)
}

func (s *ScanService) cachedProduct(ctx context.Context, barcode string) (*models.Product, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.GetProduct(ctx, barcode)
}

func (s *ScanService) recordScan(ctx context.Context, userID string, product *models.Product) {
	if _, err := s.scans.Create(ctx, userID, product); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"userId":  userID,
			"product": product.ID,
		}).Error("Failed to record scan in history")
	}
}

func productFromIdentification(identification *models.Identification) *models.Product {
	product := &models.Product{
		ID:        uuid.New().String(),
		Name:      "Unknown Product",
		Brand:     identification.Brand,
		Category:  identification.Category,
		Source:    types.SourceAI,
		ScannedAt: time.Now().UTC(),
	}
	if identification.ProductName != nil && *identification.ProductName != "" {
		product.Name = *identification.ProductName
	}
	return product
}
