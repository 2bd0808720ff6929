package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/product-scanner/internal/models"
)

// ScanRepository persists scan history. The collection is append-only: the
// application never updates or deletes a scan record. Two scans of the same
// barcode create two rows whose embedded products share an ID.
type ScanRepository struct {
	db *PostgresDB
}

// NewScanRepository creates a new scan repository
func NewScanRepository(db *PostgresDB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Create appends a scan record and returns it with its assigned ID
func (r *ScanRepository) Create(ctx context.Context, userID string, product *models.Product) (*models.ScanRecord, error) {
	record := &models.ScanRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Product:   *product,
		ScannedAt: time.Now(),
	}

	productJSON, err := json.Marshal(record.Product)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	query := `
		INSERT INTO scans (id, user_id, product, scanned_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.db.Pool().Exec(ctx, query,
		record.ID,
		record.UserID,
		productJSON,
		record.ScannedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan record: %w", err)
	}

	return record, nil
}

// ListByUser returns a user's most recent scans, newest first
func (r *ScanRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, product, scanned_at
		FROM scans
		WHERE user_id = $1
		ORDER BY scanned_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ListAllByUser returns a user's full scan history. Analytics recomputes its
// aggregates from this on every call; cost grows linearly with history size,
// which is acceptable for a single user's lifetime scans.
func (r *ScanRepository) ListAllByUser(ctx context.Context, userID string) ([]*models.ScanRecord, error) {
	query := `
		SELECT id, user_id, product, scanned_at
		FROM scans
		WHERE user_id = $1
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows pgxRows) ([]*models.ScanRecord, error) {
	records := make([]*models.ScanRecord, 0)
	for rows.Next() {
		var record models.ScanRecord
		var productJSON []byte

		if err := rows.Scan(&record.ID, &record.UserID, &productJSON, &record.ScannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal(productJSON, &record.Product); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product: %w", err)
		}

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}
