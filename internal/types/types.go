// Package types provides common type definitions for the product scanner system.
package types

// UserTier represents the service tier level
type UserTier string

const (
	// TierFree represents the free service tier with limited features
	TierFree UserTier = "free"
	// TierPaid represents the paid service tier with full features
	TierPaid UserTier = "paid"
)

// IsValid reports whether the tier is one of the known tiers
func (t UserTier) IsValid() bool {
	return t == TierFree || t == TierPaid
}

// AlternativeType classifies an AI-suggested substitute product
type AlternativeType string

const (
	// AlternativeBudget represents a cheaper substitute
	AlternativeBudget AlternativeType = "budget"
	// AlternativeHealthier represents a substitute with a better nutritional profile
	AlternativeHealthier AlternativeType = "healthier"
	// AlternativeEcoFriendly represents a more sustainable substitute
	AlternativeEcoFriendly AlternativeType = "eco_friendly"
)

// IsValid reports whether the alternative type is one of the known tags
func (t AlternativeType) IsValid() bool {
	switch t {
	case AlternativeBudget, AlternativeHealthier, AlternativeEcoFriendly:
		return true
	}
	return false
}

// ProductSource identifies where a product record came from
type ProductSource string

const (
	// SourceBarcode represents a product resolved from a barcode lookup
	SourceBarcode ProductSource = "barcode"
	// SourceAI represents a product identified from a photo by the AI client
	SourceAI ProductSource = "ai"
	// SourceSearch represents a product resolved from a free-text search hit
	SourceSearch ProductSource = "search"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
