package adapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/product-scanner/internal/errors"

	"github.com/product-scanner/internal/config"
	"github.com/product-scanner/internal/logging"
	"github.com/product-scanner/internal/models"
	"github.com/product-scanner/internal/quota"
)

// GeminiClient wraps the Gemini generateContent endpoint behind two operations:
// identify a product from a photo and suggest cheaper/healthier alternatives.
// The model is only informally contracted to return JSON, so every response is
// parsed defensively; a reply the client cannot use degrades to an absent
// result (identification) or to synthesized alternatives (suggestions).
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	pacer   *Pacer
	budget  *quota.RequestBudget
	logger  *logging.Logger
}

const identifyPrompt = `Analyze this product image and identify the product. Return ONLY a JSON object with this exact structure:
{
  "product_name": "exact product name",
  "brand": "brand name if visible",
  "category": "food category (e.g., snacks, beverages, dairy, etc.)",
  "confidence": 0.95,
  "description": "brief product description",
  "estimated_price_range": "$2.99 - $4.99",
  "key_features": ["feature1", "feature2", "feature3"]
}

If you cannot clearly identify the product, return:
{
  "product_name": null,
  "confidence": 0.0,
  "error": "Could not identify product from image"
}

Be specific with product names and brands. Focus on food and consumer products.`

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiClient creates a new Gemini API client. The pacer is shared state:
// every call site paced by the same instance respects the same minimum interval.
// The budget is optional; a nil budget disables daily quota tracking.
func NewGeminiClient(cfg *config.GeminiConfig, pacer *Pacer, budget *quota.RequestBudget, logger *logging.Logger) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		pacer:   pacer,
		budget:  budget,
		logger:  logger,
	}
}

// IdentifyProductFromImage sends a JPEG to the model and parses its structured
// reply. It returns (nil, nil) when the model cannot identify the product, when
// its confidence is at or below 0.5, or when the reply is unusable for any
// reason - absence is the interface, upstream error categories only feed
// diagnostic logs. A missing API key is the one hard error on this path.
func (c *GeminiClient) IdentifyProductFromImage(ctx context.Context, imageJPEG []byte) (*models.Identification, error) {
	if c.apiKey == "" {
		return nil, apperrors.NewMissingAPIKeyError("gemini")
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacing interrupted: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: identifyPrompt},
				{InlineData: &geminiInlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(imageJPEG),
				}},
			},
		}},
	}

	text, err := c.generate(ctx, &reqBody)
	if err != nil {
		c.logger.WithError(err).Warn("Gemini identification request failed")
		return nil, nil
	}
	if text == "" {
		c.logger.Warn("Gemini identification returned no content")
		return nil, nil
	}

	var identification models.Identification
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &identification); err != nil {
		c.logger.WithError(err).Warn("Gemini identification returned malformed JSON")
		return nil, nil
	}

	if identification.Error != nil {
		c.logger.WithField("reason", *identification.Error).Debug("Gemini could not identify product")
	}

	if identification.ProductName == nil || identification.Confidence <= 0.5 {
		return nil, nil
	}

	return &identification, nil
}

// GetCheaperAlternatives asks the model for 3-5 tagged alternatives to the given
// product. The result is always non-empty: a failed call, a malformed reply, a
// missing API key, or a reply with no usable entries all yield the synthesized
// fallback set. Downstream cannot distinguish "the model found nothing" from
// "the call failed"; that merge is intentional and pinned by tests.
func (c *GeminiClient) GetCheaperAlternatives(ctx context.Context, product *models.Product) []models.Alternative {
	if c.apiKey == "" {
		c.logger.Warn("Gemini API key not configured, using fallback alternatives")
		return FallbackAlternatives(product)
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return FallbackAlternatives(product)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: alternativesPrompt(product)}},
		}},
	}

	text, err := c.generate(ctx, &reqBody)
	if err != nil {
		c.logger.WithError(err).Warn("Gemini alternatives request failed, using fallback")
		return FallbackAlternatives(product)
	}
	if text == "" {
		c.logger.Warn("Gemini alternatives returned no content, using fallback")
		return FallbackAlternatives(product)
	}

	var alternatives []models.Alternative
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &alternatives); err != nil {
		c.logger.WithError(err).Warn("Gemini alternatives returned malformed JSON, using fallback")
		return FallbackAlternatives(product)
	}

	valid := make([]models.Alternative, 0, len(alternatives))
	for _, alt := range alternatives {
		if alt.Name == "" || alt.EstimatedPrice == "" || alt.Confidence <= 0.5 {
			continue
		}
		valid = append(valid, alt)
	}

	if len(valid) == 0 {
		return FallbackAlternatives(product)
	}

	return valid
}

func alternativesPrompt(product *models.Product) string {
	brand := "Unknown Brand"
	if product.Brand != nil {
		brand = *product.Brand
	}
	category := "General"
	if product.Category != nil {
		category = *product.Category
	}

	return fmt.Sprintf(`Find 3-5 cheaper alternatives for this product: %q by %s in category %q.

Return ONLY a JSON array with this exact structure:
[
  {
    "name": "Alternative Product Name",
    "brand": "Brand Name",
    "category": %q,
    "estimated_price": "$2.99",
    "original_price": "$4.99",
    "savings_percentage": 40,
    "reason": "Why this is a better choice (price, quality, health)",
    "key_features": ["feature1", "feature2", "feature3"],
    "where_to_find": "Walmart, Target, Amazon",
    "confidence": 0.85,
    "alternative_type": "budget"
  }
]

Alternative types: "budget" (cheaper), "healthier" (better nutrition), "eco_friendly" (sustainable)
Focus on real products that are commonly available in US stores.
Ensure savings_percentage is realistic (10-60%%).
Make prices realistic for the product category.`, product.Name, brand, category, category)
}

// generate performs the generateContent call and extracts the first candidate's
// text. Distinct upstream failure categories map to log lines only: callers see
// every failure the same way.
func (c *GeminiClient) generate(ctx context.Context, reqBody *geminiRequest) (string, error) {
	if !c.budget.Allow(ctx) {
		c.logger.Warn("Gemini daily request budget exhausted")
		return "", fmt.Errorf("daily request budget exhausted")
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusBadRequest:
			c.logger.Warn("Gemini rejected the request: check API key and request format")
		case http.StatusTooManyRequests:
			c.logger.Warn("Gemini rate limit exceeded: wait before making another request")
		case http.StatusForbidden:
			c.logger.Warn("Gemini API key invalid or has insufficient permissions")
		}
		return "", fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFences removes a markdown code-fence wrapper the model often adds
// around its JSON reply.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
