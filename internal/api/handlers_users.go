package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/product-scanner/internal/types"
)

// CreateUserRequest is the request body for user registration
type CreateUserRequest struct {
	Email string `json:"email"`
	Tier  string `json:"tier,omitempty"`
}

// handleCreateUser handles POST /api/users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	user, err := s.userService.Register(r.Context(), req.Email, types.UserTier(req.Tier))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// handleGetUser handles GET /api/users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := s.userService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
