package api

import (
	"encoding/base64"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/product-scanner/internal/models"
)

// requireUserID extracts the authenticated user from the X-User-ID header.
// Returns false after writing the error response when the header is missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "X-User-ID header is required", nil)
		return "", false
	}
	return userID, true
}

// handleGetProduct handles GET /api/products/{barcode}
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	barcode := mux.Vars(r)["barcode"]

	product, err := s.scanService.LookupBarcode(r.Context(), userID, barcode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if product == nil {
		// A miss is expected: the client should offer photo identification
		respondError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found for barcode "+barcode, map[string]interface{}{
			"barcode":  barcode,
			"fallback": "photo identification",
		})
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// handleSearchProducts handles GET /api/products/search?q=...&category=...
func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Query parameter 'q' is required", nil)
		return
	}
	category := r.URL.Query().Get("category")

	products, err := s.scanService.SearchProducts(r.Context(), query, category)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// IdentifyProductRequest is the request body for photo identification
type IdentifyProductRequest struct {
	// Image is a base64-encoded JPEG
	Image string `json:"image"`
}

// handleIdentifyProduct handles POST /api/products/identify
func (s *Server) handleIdentifyProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req IdentifyProductRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Image == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Field 'image' is required", nil)
		return
	}

	imageJPEG, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Field 'image' must be base64-encoded", nil)
		return
	}

	product, err := s.scanService.IdentifyFromImage(r.Context(), userID, imageJPEG)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "PRODUCT_NOT_IDENTIFIED", "Could not identify a product in the image", nil)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// AlternativesRequest is the request body for alternative suggestions
type AlternativesRequest struct {
	Product *models.Product `json:"product"`
}

// handleGetAlternatives handles POST /api/products/alternatives
func (s *Server) handleGetAlternatives(w http.ResponseWriter, r *http.Request) {
	var req AlternativesRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Product == nil || req.Product.Name == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Field 'product' with a name is required", nil)
		return
	}

	alternatives, err := s.suggestionService.Alternatives(r.Context(), req.Product)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alternatives": alternatives,
		"count":        len(alternatives),
	})
}
