package api

import (
	"net/http"
	"strconv"
)

// handleGetScans handles GET /api/scans?limit=...
func (s *Server) handleGetScans(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Query parameter 'limit' must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}

	records, err := s.scanService.History(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scans": records,
		"count": len(records),
	})
}
