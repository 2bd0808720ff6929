package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/product-scanner/internal/logging"
	"github.com/product-scanner/internal/models"
	"github.com/product-scanner/internal/types"
)

// Mock nutrition database for testing
type mockProductLookup struct {
	products  map[string]*models.Product
	searchFn  func(ctx context.Context, name, category string) ([]*models.Product, error)
	lookupErr error
	calls     int
}

func (m *mockProductLookup) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	m.calls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.products[barcode], nil
}

func (m *mockProductLookup) SearchProductsByName(ctx context.Context, name, category string) ([]*models.Product, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, name, category)
	}
	return nil, nil
}

type mockIdentifier struct {
	identification *models.Identification
	err            error
}

func (m *mockIdentifier) IdentifyProductFromImage(ctx context.Context, imageJPEG []byte) (*models.Identification, error) {
	return m.identification, m.err
}

type mockScanStore struct {
	records   []*models.ScanRecord
	createErr error
}

func (m *mockScanStore) Create(ctx context.Context, userID string, product *models.Product) (*models.ScanRecord, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	record := &models.ScanRecord{
		ID:        fmt.Sprintf("scan-%d", len(m.records)+1),
		UserID:    userID,
		Product:   *product,
		ScannedAt: product.ScannedAt,
	}
	m.records = append(m.records, record)
	return record, nil
}

func (m *mockScanStore) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ScanRecord, error) {
	result := m.byUser(userID)
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockScanStore) ListAllByUser(ctx context.Context, userID string) ([]*models.ScanRecord, error) {
	return m.byUser(userID), nil
}

func (m *mockScanStore) byUser(userID string) []*models.ScanRecord {
	result := make([]*models.ScanRecord, 0)
	for _, record := range m.records {
		if record.UserID == userID {
			result = append(result, record)
		}
	}
	return result
}

type mockCache struct {
	products map[string]*models.Product
	setErr   error
	hits     int
}

func (m *mockCache) GetProduct(ctx context.Context, barcode string) (*models.Product, bool) {
	product, ok := m.products[barcode]
	if ok {
		m.hits++
	}
	return product, ok
}

func (m *mockCache) SetProduct(ctx context.Context, product *models.Product) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.products == nil {
		m.products = make(map[string]*models.Product)
	}
	m.products[product.Barcode] = product
	return nil
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelError, logging.FormatText)
}

func sampleProduct(barcode string) *models.Product {
	category := "Snacks"
	return &models.Product{
		ID:        barcode,
		Barcode:   barcode,
		Name:      "Crunchy Chips",
		Category:  &category,
		Source:    types.SourceBarcode,
		ScannedAt: time.Now().UTC(),
	}
}

func TestLookupBarcode_RecordsScanAndCaches(t *testing.T) {
	lookup := &mockProductLookup{products: map[string]*models.Product{
		"3017620422003": sampleProduct("3017620422003"),
	}}
	scans := &mockScanStore{}
	cache := &mockCache{}
	svc := NewScanService(lookup, nil, scans, cache, testLogger())

	product, err := svc.LookupBarcode(context.Background(), "user-1", "3017620422003")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if product == nil || product.Barcode != "3017620422003" {
		t.Fatalf("Expected product for barcode, got %+v", product)
	}
	if len(scans.records) != 1 {
		t.Errorf("Expected 1 scan record, got %d", len(scans.records))
	}
	if _, ok := cache.products["3017620422003"]; !ok {
		t.Error("Expected product to be cached after lookup")
	}
}

func TestLookupBarcode_CacheHitSkipsUpstream(t *testing.T) {
	lookup := &mockProductLookup{}
	scans := &mockScanStore{}
	cache := &mockCache{products: map[string]*models.Product{
		"3017620422003": sampleProduct("3017620422003"),
	}}
	svc := NewScanService(lookup, nil, scans, cache, testLogger())

	product, err := svc.LookupBarcode(context.Background(), "user-1", "3017620422003")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if product == nil {
		t.Fatal("Expected cached product")
	}
	if lookup.calls != 0 {
		t.Errorf("Expected no upstream calls on cache hit, got %d", lookup.calls)
	}
	if len(scans.records) != 1 {
		t.Errorf("Expected cache hit to still record a scan, got %d records", len(scans.records))
	}
}

func TestLookupBarcode_NotFoundReturnsNilNil(t *testing.T) {
	svc := NewScanService(&mockProductLookup{}, nil, &mockScanStore{}, nil, testLogger())

	product, err := svc.LookupBarcode(context.Background(), "user-1", "0000000000000")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if product != nil {
		t.Errorf("Expected nil product for unknown barcode, got %+v", product)
	}
}

func TestLookupBarcode_HistoryWriteFailureDoesNotFailLookup(t *testing.T) {
	lookup := &mockProductLookup{products: map[string]*models.Product{
		"3017620422003": sampleProduct("3017620422003"),
	}}
	scans := &mockScanStore{createErr: fmt.Errorf("connection reset")}
	svc := NewScanService(lookup, nil, scans, nil, testLogger())

	product, err := svc.LookupBarcode(context.Background(), "user-1", "3017620422003")
	if err != nil {
		t.Fatalf("Expected lookup to succeed despite history failure, got %v", err)
	}
	if product == nil {
		t.Fatal("Expected product despite history failure")
	}
}

func TestLookupBarcode_EmptyBarcodeRejected(t *testing.T) {
	svc := NewScanService(&mockProductLookup{}, nil, &mockScanStore{}, nil, testLogger())

	if _, err := svc.LookupBarcode(context.Background(), "user-1", ""); err == nil {
		t.Error("Expected error for empty barcode")
	}
}

func TestIdentifyFromImage_BuildsProductAndRecordsScan(t *testing.T) {
	name := "Crunchy Chips"
	brand := "SnackCo"
	identifier := &mockIdentifier{identification: &models.Identification{
		ProductName: &name,
		Brand:       &brand,
		Confidence:  0.92,
	}}
	scans := &mockScanStore{}
	svc := NewScanService(&mockProductLookup{}, identifier, scans, nil, testLogger())

	product, err := svc.IdentifyFromImage(context.Background(), "user-1", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if product == nil {
		t.Fatal("Expected identified product")
	}
	if product.Name != "Crunchy Chips" {
		t.Errorf("Expected product name from identification, got %q", product.Name)
	}
	if product.Brand == nil || *product.Brand != "SnackCo" {
		t.Errorf("Expected brand from identification, got %v", product.Brand)
	}
	if product.Source != types.SourceAI {
		t.Errorf("Expected source %q, got %q", types.SourceAI, product.Source)
	}
	if product.ID == "" {
		t.Error("Expected synthetic product id")
	}
	if product.Barcode != "" {
		t.Errorf("Identified products must not carry a barcode, got %q", product.Barcode)
	}
	if len(scans.records) != 1 {
		t.Errorf("Expected identification to record a scan, got %d records", len(scans.records))
	}
}

func TestIdentifyFromImage_NotIdentifiedReturnsNilNil(t *testing.T) {
	svc := NewScanService(&mockProductLookup{}, &mockIdentifier{}, &mockScanStore{}, nil, testLogger())

	product, err := svc.IdentifyFromImage(context.Background(), "user-1", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if product != nil {
		t.Errorf("Expected nil product for unidentified image, got %+v", product)
	}
}

func TestIdentifyFromImage_EmptyImageRejected(t *testing.T) {
	svc := NewScanService(&mockProductLookup{}, &mockIdentifier{}, &mockScanStore{}, nil, testLogger())

	if _, err := svc.IdentifyFromImage(context.Background(), "user-1", nil); err == nil {
		t.Error("Expected error for empty image")
	}
}

func TestHistory_RespectsLimit(t *testing.T) {
	scans := &mockScanStore{}
	for i := 0; i < 5; i++ {
		if _, err := scans.Create(context.Background(), "user-1", sampleProduct(fmt.Sprintf("barcode-%d", i))); err != nil {
			t.Fatalf("Failed to seed scan: %v", err)
		}
	}
	svc := NewScanService(&mockProductLookup{}, nil, scans, nil, testLogger())

	records, err := svc.History(context.Background(), "user-1", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}
