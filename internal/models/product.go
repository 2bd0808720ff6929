package models

import (
	"time"

	"github.com/product-scanner/internal/types"
)

// Product represents a normalized product record.
// ID is always present: the barcode for database lookups, or a synthetic UUID for
// AI-identified products. Uniqueness is per user history only - two scans of the
// same barcode create two history entries sharing the product ID.
type Product struct {
	ID             string              `json:"id"`
	Barcode        string              `json:"barcode,omitempty"`
	Name           string              `json:"name"`
	Brand          *string             `json:"brand,omitempty"`
	Category       *string             `json:"category,omitempty"`
	ImageURL       *string             `json:"imageUrl,omitempty"`
	NutritionGrade *string             `json:"nutritionGrade,omitempty"`
	Ingredients    []string            `json:"ingredients,omitempty"`
	Allergens      []string            `json:"allergens,omitempty"`
	NutritionFacts *NutritionFacts     `json:"nutritionFacts,omitempty"`
	Source         types.ProductSource `json:"source,omitempty"`
	ScannedAt      time.Time           `json:"scannedAt"`
}

// NutritionFacts holds per-100g nutrient values. Every field is optional:
// a nil pointer means the upstream database did not report the value,
// which is distinct from a reported zero.
type NutritionFacts struct {
	Energy        *float64 `json:"energy,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	SaturatedFat  *float64 `json:"saturatedFat,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Sugars        *float64 `json:"sugars,omitempty"`
	Fiber         *float64 `json:"fiber,omitempty"`
	Proteins      *float64 `json:"proteins,omitempty"`
	Salt          *float64 `json:"salt,omitempty"`
}

// CategoryOrUnknown returns the product category, substituting the literal
// "Unknown" label when no category is present. No case normalization is applied.
func (p *Product) CategoryOrUnknown() string {
	if p.Category == nil || *p.Category == "" {
		return "Unknown"
	}
	return *p.Category
}
