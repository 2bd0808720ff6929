package models

import "github.com/product-scanner/internal/types"

// Alternative represents an AI-suggested substitute product.
// Alternatives are ephemeral: they are recomputed per request and never persisted.
type Alternative struct {
	Name              string                `json:"name"`
	Brand             string                `json:"brand"`
	Category          string                `json:"category"`
	EstimatedPrice    string                `json:"estimated_price"`
	OriginalPrice     string                `json:"original_price,omitempty"`
	SavingsPercentage int                   `json:"savings_percentage"`
	Reason            string                `json:"reason"`
	KeyFeatures       []string              `json:"key_features"`
	WhereToFind       string                `json:"where_to_find"`
	Confidence        float64               `json:"confidence"`
	Type              types.AlternativeType `json:"alternative_type"`
}

// Identification represents the AI client's answer to an identify-from-image request
type Identification struct {
	ProductName         *string  `json:"product_name"`
	Brand               *string  `json:"brand,omitempty"`
	Category            *string  `json:"category,omitempty"`
	Confidence          float64  `json:"confidence"`
	Description         *string  `json:"description,omitempty"`
	EstimatedPriceRange *string  `json:"estimated_price_range,omitempty"`
	KeyFeatures         []string `json:"key_features,omitempty"`
	Error               *string  `json:"error,omitempty"`
}
