package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/product-scanner/internal/models"
)

// AddFavoriteRequest is the request body for saving a favorite
type AddFavoriteRequest struct {
	Product *models.Product `json:"product"`
}

// handleAddFavorite handles POST /api/favorites
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AddFavoriteRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Product == nil || req.Product.Name == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Field 'product' with a name is required", nil)
		return
	}

	favorite, err := s.favoriteService.Add(r.Context(), userID, req.Product)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, favorite)
}

// handleListFavorites handles GET /api/favorites
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	favorites, err := s.favoriteService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// handleRemoveFavorite handles DELETE /api/favorites/{id}
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	favoriteID := mux.Vars(r)["id"]

	if err := s.favoriteService.Remove(r.Context(), userID, favoriteID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
