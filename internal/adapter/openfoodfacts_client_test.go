package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/product-scanner/internal/config"
	"github.com/product-scanner/internal/types"
)

const sampleBarcodePayload = `{
  "status": 1,
  "product": {
    "code": "3017620422003",
    "product_name": "Nutella",
    "brands": "Ferrero, Ferrero Deutschland",
    "categories": "Spreads, Sweet spreads, Hazelnut spreads",
    "image_url": "https://images.openfoodfacts.org/nutella.jpg",
    "nutrition_grades": "e",
    "ingredients_text": "Sugar, palm oil, hazelnuts , cocoa",
    "allergens": "en:milk,en:nuts",
    "nutriments": {
      "energy_100g": 2252,
      "fat_100g": 30.9,
      "saturated-fat_100g": 10.6,
      "carbohydrates_100g": 57.5,
      "sugars_100g": 56.3,
      "proteins_100g": 6.3,
      "salt_100g": 0.107
    }
  }
}`

func newTestOFFClient(t *testing.T, handler http.HandlerFunc) (*OpenFoodFactsClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewOpenFoodFactsClient(&config.OpenFoodConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	return client, server
}

func TestGetProductByBarcode(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/3017620422003.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBarcodePayload))
	})

	product, err := client.GetProductByBarcode(context.Background(), "3017620422003")
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "3017620422003", product.ID)
	assert.Equal(t, "3017620422003", product.Barcode)
	assert.Equal(t, "Nutella", product.Name)
	assert.Equal(t, types.SourceBarcode, product.Source)

	// First comma-separated segment only
	require.NotNil(t, product.Brand)
	assert.Equal(t, "Ferrero", *product.Brand)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Spreads", *product.Category)

	// Comma splitting trims every segment
	assert.Equal(t, []string{"Sugar", "palm oil", "hazelnuts", "cocoa"}, product.Ingredients)
	assert.Equal(t, []string{"en:milk", "en:nuts"}, product.Allergens)

	require.NotNil(t, product.NutritionGrade)
	assert.Equal(t, "e", *product.NutritionGrade)

	// Partial nutriments: present values mapped, absent sub-fields stay nil
	require.NotNil(t, product.NutritionFacts)
	require.NotNil(t, product.NutritionFacts.Energy)
	assert.Equal(t, 2252.0, *product.NutritionFacts.Energy)
	require.NotNil(t, product.NutritionFacts.SaturatedFat)
	assert.Equal(t, 10.6, *product.NutritionFacts.SaturatedFat)
	assert.Nil(t, product.NutritionFacts.Fiber)

	assert.WithinDuration(t, time.Now(), product.ScannedAt, 5*time.Second)
}

func TestGetProductByBarcodeNotFound(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	})

	product, err := client.GetProductByBarcode(context.Background(), "0000000000000")

	// Absence is a normal outcome, not an error
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestGetProductByBarcodeMissingNutriments(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 1, "product": {"code": "123", "product_name": "Mystery Snack"}}`))
	})

	product, err := client.GetProductByBarcode(context.Background(), "123")
	require.NoError(t, err)
	require.NotNil(t, product)

	// No nutriments object means no NutritionFacts at all, not a zero-filled one
	assert.Nil(t, product.NutritionFacts)
	assert.Nil(t, product.Ingredients)
	assert.Nil(t, product.Allergens)
	assert.Nil(t, product.Brand)
	assert.Nil(t, product.Category)
}

func TestGetProductByBarcodeUnknownName(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 1, "product": {"code": "456"}}`))
	})

	product, err := client.GetProductByBarcode(context.Background(), "456")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Unknown Product", product.Name)
}

func TestGetProductByBarcodeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // client now dials a dead server

	client := NewOpenFoodFactsClient(&config.OpenFoodConfig{
		BaseURL: server.URL,
		Timeout: time.Second,
	})

	product, err := client.GetProductByBarcode(context.Background(), "123")
	require.Error(t, err)
	assert.Nil(t, product)
}

func TestGetProductByBarcodeServerError(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	product, err := client.GetProductByBarcode(context.Background(), "123")
	require.Error(t, err)
	assert.Nil(t, product)
}

func TestNormalizationRoundTrip(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBarcodePayload))
	})

	first, err := client.GetProductByBarcode(context.Background(), "3017620422003")
	require.NoError(t, err)
	second, err := client.GetProductByBarcode(context.Background(), "3017620422003")
	require.NoError(t, err)

	// Equal in every field except the capture timestamp
	second.ScannedAt = first.ScannedAt
	assert.Equal(t, first, second)
}

func TestSearchProductsByName(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		assert.Equal(t, "granola bar snacks", r.URL.Query().Get("search_terms"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [
			{"code": "111", "product_name": "Crunchy Granola Bar", "brands": "OatCo"},
			{"code": "222", "product_name": "Chewy Granola Bar"}
		]}`))
	})

	products, err := client.SearchProductsByName(context.Background(), "granola bar", "snacks")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Crunchy Granola Bar", products[0].Name)
	assert.Equal(t, types.SourceSearch, products[0].Source)
	require.NotNil(t, products[0].Brand)
	assert.Equal(t, "OatCo", *products[0].Brand)
	assert.Nil(t, products[1].Brand)
}

func TestSearchProductsByNameEmpty(t *testing.T) {
	client, _ := newTestOFFClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": []}`))
	})

	products, err := client.SearchProductsByName(context.Background(), "nonexistent", "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, SplitAndTrim(""))
	assert.Equal(t, []string{"a", "b", "c"}, SplitAndTrim("a, b ,c"))
	assert.Equal(t, []string{"single"}, SplitAndTrim("single"))
}

// Splitting and trimming must be idempotent: re-splitting the joined output of
// a previous split yields the same list.
func TestSplitAndTrimIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	segment := gen.RegexMatch(`[a-zA-Z0-9 ]{0,12}`)

	properties.Property("split-trim-join-split is stable", prop.ForAll(
		func(segments []string) bool {
			input := strings.Join(segments, ",")
			once := SplitAndTrim(input)
			again := SplitAndTrim(strings.Join(once, ","))
			if len(once) != len(again) {
				return false
			}
			for i := range once {
				if once[i] != again[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(segment),
	))

	properties.TestingRun(t)
}
