package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/commute-coach/internal/db"
	"github.com/jonathan/commute-coach/internal/server/middleware"
)

// BlockSourceRequest adds a channel or uploader to the user's blocklist.
type BlockSourceRequest struct {
	SourceID string `json:"source_id" validate:"required,min=1"`
	Reason   string `json:"reason,omitempty"`
}

// handleListBlockedSources returns the user's blocklist.
func (s *Server) handleListBlockedSources(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	blocked, err := s.db.ListBlockedSources(r.Context(), userID)
	if err != nil {
		log.Printf("[sources] failed to list blocked sources for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list blocked sources")
		return
	}
	if blocked == nil {
		blocked = []db.BlockedSource{}
	}

	s.jsonResponse(w, http.StatusOK, blocked)
}

// handleBlockSource adds a source to the user's blocklist. Blocking an
// already-blocked source updates the reason.
func (s *Server) handleBlockSource(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BlockSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := s.db.BlockSource(r.Context(), userID, req.SourceID, req.Reason); err != nil {
		log.Printf("[sources] failed to block source for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to block source")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"message": "Source blocked"})
}

// handleUnblockSource removes a source from the user's blocklist.
func (s *Server) handleUnblockSource(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sourceID := r.PathValue("source_id")
	if sourceID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing source ID")
		return
	}

	if err := s.db.UnblockSource(r.Context(), userID, sourceID); err != nil {
		log.Printf("[sources] failed to unblock source for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to unblock source")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Source unblocked"})
}
