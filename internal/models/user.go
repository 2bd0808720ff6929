package models

import (
	"time"

	"github.com/product-scanner/internal/types"
)

// User represents an account known to this service. Credential verification and
// session issuance are delegated to the identity provider in front of the API;
// this record only carries the identity and the tier used for rate limiting.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Tier      types.UserTier `json:"tier"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
