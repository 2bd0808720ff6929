package api

import (
	"net/http"
)

// handleGetAnalytics handles GET /api/analytics
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	analytics, err := s.analyticsService.ForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analytics)
}
