package adapter

import (
	"fmt"
	"strings"

	"github.com/product-scanner/internal/models"
	"github.com/product-scanner/internal/types"
)

// categoryBasePrices maps category keywords to a baseline price used when the
// AI service is unavailable and alternatives have to be synthesized.
var categoryBasePrices = []struct {
	keywords []string
	price    float64
}{
	{[]string{"snack"}, 3.99},
	{[]string{"beverage", "drink"}, 2.49},
	{[]string{"dairy"}, 4.99},
	{[]string{"bread", "bakery"}, 3.49},
	{[]string{"meat"}, 8.99},
	{[]string{"frozen"}, 5.99},
	{[]string{"cereal"}, 4.49},
	{[]string{"sauce", "condiment"}, 2.99},
}

const defaultBasePrice = 4.99

// EstimateBasePrice estimates a product's price from its category keyword
func EstimateBasePrice(product *models.Product) float64 {
	category := strings.ToLower(product.CategoryOrUnknown())
	for _, entry := range categoryBasePrices {
		for _, keyword := range entry.keywords {
			if strings.Contains(category, keyword) {
				return entry.price
			}
		}
	}
	return defaultBasePrice
}

// FallbackAlternatives deterministically synthesizes a small set of alternatives
// from category price heuristics. Used whenever the AI service cannot supply
// usable suggestions, so the caller always has at least one entry to show.
func FallbackAlternatives(product *models.Product) []models.Alternative {
	category := strings.ToLower(product.CategoryOrUnknown())
	displayCategory := "General"
	if product.Category != nil && *product.Category != "" {
		displayCategory = *product.Category
	}

	basePrice := EstimateBasePrice(product)

	baseName := product.Name
	if product.Brand != nil {
		baseName = strings.TrimSpace(strings.ReplaceAll(baseName, *product.Brand, ""))
	}
	if baseName == "" {
		baseName = product.Name
	}

	alternatives := []models.Alternative{
		{
			Name:              fmt.Sprintf("Store Brand %s", baseName),
			Brand:             "Generic Brand",
			Category:          displayCategory,
			EstimatedPrice:    formatPrice(basePrice * 0.7),
			OriginalPrice:     formatPrice(basePrice),
			SavingsPercentage: 30,
			Reason:            "Same quality ingredients at a lower price point",
			KeyFeatures:       []string{"Same Quality", "Lower Cost", "Widely Available"},
			WhereToFind:       "Walmart, Kroger, Safeway",
			Confidence:        0.85,
			Type:              types.AlternativeBudget,
		},
	}

	// Healthier substitute only makes sense for food categories
	if strings.Contains(category, "food") || strings.Contains(category, "snack") || strings.Contains(category, "dairy") {
		alternatives = append(alternatives, models.Alternative{
			Name:              fmt.Sprintf("Organic %s", product.Name),
			Brand:             "Organic Brand",
			Category:          displayCategory,
			EstimatedPrice:    formatPrice(basePrice * 0.9),
			OriginalPrice:     formatPrice(basePrice * 1.2),
			SavingsPercentage: 25,
			Reason:            "Organic ingredients with better nutritional profile",
			KeyFeatures:       []string{"Organic", "No Preservatives", "Better Nutrition"},
			WhereToFind:       "Whole Foods, Target, Amazon",
			Confidence:        0.78,
			Type:              types.AlternativeHealthier,
		})
	}

	alternatives = append(alternatives, models.Alternative{
		Name:              fmt.Sprintf("Eco-Friendly %s", product.Name),
		Brand:             "Green Brand",
		Category:          displayCategory,
		EstimatedPrice:    formatPrice(basePrice * 0.85),
		OriginalPrice:     formatPrice(basePrice),
		SavingsPercentage: 15,
		Reason:            "Sustainable packaging and environmentally friendly production",
		KeyFeatures:       []string{"Eco-Friendly", "Sustainable", "Recyclable Packaging"},
		WhereToFind:       "Target, Amazon, Local Stores",
		Confidence:        0.72,
		Type:              types.AlternativeEcoFriendly,
	})

	return alternatives
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}
