package service

import (
	"context"
	"fmt"

	"github.com/product-scanner/internal/models"
)

// AlternativeSuggester defines the cheaper-alternative generation operation
type AlternativeSuggester interface {
	GetCheaperAlternatives(ctx context.Context, product *models.Product) []models.Alternative
}

// SuggestionService produces cheaper alternative suggestions for a scanned
// product. The underlying suggester never fails outright: when the AI path is
// unavailable it substitutes heuristic estimates, so callers always get a
// non-empty list for a valid product.
type SuggestionService struct {
	suggester AlternativeSuggester
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(suggester AlternativeSuggester) *SuggestionService {
	return &SuggestionService{suggester: suggester}
}

// Alternatives returns cheaper alternative suggestions for the given product
func (s *SuggestionService) Alternatives(ctx context.Context, product *models.Product) ([]models.Alternative, error) {
	if product == nil || product.Name == "" {
		return nil, fmt.Errorf("product with a name is required")
	}
	return s.suggester.GetCheaperAlternatives(ctx, product), nil
}
