package models

import "time"

// ScanRecord represents one entry in a user's scan history.
// Append-only: records are never updated or deleted by the application.
type ScanRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Product   Product   `json:"product"`
	ScannedAt time.Time `json:"scannedAt"`
}
