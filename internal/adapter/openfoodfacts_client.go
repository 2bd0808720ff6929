// Package adapter provides clients for the external APIs the scanner depends on:
// the Open Food Facts nutrition database and the Gemini generative model.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/product-scanner/internal/config"
	"github.com/product-scanner/internal/models"
	"github.com/product-scanner/internal/types"
)

// OpenFoodFactsClient fetches product data from the Open Food Facts REST API
// and normalizes it into the internal Product shape. Lookups are single-shot:
// a network failure is reported to the caller, never retried here.
type OpenFoodFactsClient struct {
	baseURL string
	client  *http.Client
}

// OpenFoodFactsProduct represents the raw upstream product payload
type OpenFoodFactsProduct struct {
	Code           string           `json:"code"`
	ProductName    string           `json:"product_name"`
	Brands         string           `json:"brands"`
	Categories     string           `json:"categories"`
	ImageURL       string           `json:"image_url"`
	NutritionGrade string           `json:"nutrition_grades"`
	IngredientsTxt string           `json:"ingredients_text"`
	Allergens      string           `json:"allergens"`
	Nutriments     *offNutriments   `json:"nutriments"`
}

type offNutriments struct {
	Energy        *float64 `json:"energy_100g"`
	Fat           *float64 `json:"fat_100g"`
	SaturatedFat  *float64 `json:"saturated-fat_100g"`
	Carbohydrates *float64 `json:"carbohydrates_100g"`
	Sugars        *float64 `json:"sugars_100g"`
	Fiber         *float64 `json:"fiber_100g"`
	Proteins      *float64 `json:"proteins_100g"`
	Salt          *float64 `json:"salt_100g"`
}

type offBarcodeResponse struct {
	Status  int                   `json:"status"`
	Product *OpenFoodFactsProduct `json:"product"`
}

type offSearchResponse struct {
	Products []OpenFoodFactsProduct `json:"products"`
}

// NewOpenFoodFactsClient creates a new Open Food Facts API client
func NewOpenFoodFactsClient(cfg *config.OpenFoodConfig) *OpenFoodFactsClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenFoodFactsClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// GetProductByBarcode looks up a product by barcode.
// A "not found" upstream response (status flag 0) yields (nil, nil): absence is
// a normal outcome and callers are expected to offer the photo scan fallback.
func (c *OpenFoodFactsClient) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	reqURL := fmt.Sprintf("%s/product/%s.json", c.baseURL, url.PathEscape(barcode))

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp offBarcodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == 0 || resp.Product == nil {
		return nil, nil
	}

	return NormalizeProduct(resp.Product, types.SourceBarcode), nil
}

// SearchProductsByName searches products by free text, optionally narrowed by
// category. An empty result list is a normal outcome, not an error.
func (c *OpenFoodFactsClient) SearchProductsByName(ctx context.Context, name, category string) ([]*models.Product, error) {
	searchTerms := name
	if category != "" {
		searchTerms = name + " " + category
	}

	params := url.Values{}
	params.Set("search_terms", searchTerms)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", "10")

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp offSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	products := make([]*models.Product, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, NormalizeProduct(&resp.Products[i], types.SourceSearch))
	}

	return products, nil
}

// doRequest performs a single HTTP GET. No retries: a transient failure is the
// caller's failed lookup.
func (c *OpenFoodFactsClient) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// NormalizeProduct converts a raw Open Food Facts payload into the internal
// Product shape. ScannedAt is stamped with the normalization time, not any
// upstream edit time.
func NormalizeProduct(raw *OpenFoodFactsProduct, source types.ProductSource) *models.Product {
	name := raw.ProductName
	if name == "" {
		name = "Unknown Product"
	}

	product := &models.Product{
		ID:          raw.Code,
		Barcode:     raw.Code,
		Name:        name,
		Brand:       firstCommaSegment(raw.Brands),
		Category:    firstCommaSegment(raw.Categories),
		ImageURL:    optionalString(raw.ImageURL),
		Ingredients: SplitAndTrim(raw.IngredientsTxt),
		Allergens:   SplitAndTrim(raw.Allergens),
		Source:      source,
		ScannedAt:   time.Now(),
	}

	if raw.NutritionGrade != "" {
		grade := raw.NutritionGrade
		product.NutritionGrade = &grade
	}

	// Nutrition facts are mapped only when the nutriments object exists.
	// A partial object keeps missing sub-fields nil rather than zero.
	if raw.Nutriments != nil {
		product.NutritionFacts = &models.NutritionFacts{
			Energy:        raw.Nutriments.Energy,
			Fat:           raw.Nutriments.Fat,
			SaturatedFat:  raw.Nutriments.SaturatedFat,
			Carbohydrates: raw.Nutriments.Carbohydrates,
			Sugars:        raw.Nutriments.Sugars,
			Fiber:         raw.Nutriments.Fiber,
			Proteins:      raw.Nutriments.Proteins,
			Salt:          raw.Nutriments.Salt,
		}
	}

	return product
}

// SplitAndTrim splits comma-separated text into trimmed segments.
// Absent text yields a nil slice, not an empty one.
func SplitAndTrim(text string) []string {
	if text == "" {
		return nil
	}

	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// firstCommaSegment returns the first comma-separated segment, trimmed
func firstCommaSegment(text string) *string {
	if text == "" {
		return nil
	}
	first := strings.TrimSpace(strings.SplitN(text, ",", 2)[0])
	return &first
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
