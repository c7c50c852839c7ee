package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/commute-coach/internal/db"
	"github.com/jonathan/commute-coach/internal/progress"
	"github.com/jonathan/commute-coach/internal/server/middleware"
	"github.com/jonathan/commute-coach/internal/types"
)

// MarkWatchedRequest records a finished video in the user's history.
type MarkWatchedRequest struct {
	VideoID     string `json:"video_id" validate:"required,min=1"`
	Topic       string `json:"topic" validate:"required,min=1"`
	Level       string `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationSec int    `json:"duration_sec" validate:"required,gt=0"`
}

// handleMarkWatched records a watched video. Re-watching is an upsert, not
// a duplicate row.
func (s *Server) handleMarkWatched(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req MarkWatchedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	err = s.db.MarkWatched(r.Context(), &db.WatchedVideo{
		UserID:      userID,
		VideoID:     req.VideoID,
		Topic:       types.NormalizeTag(req.Topic),
		Level:       req.Level,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		log.Printf("[history] failed to mark watched for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to record watch")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"message": "Recorded"})
}

// handleListHistory returns the user's watch history, most recent first.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	watched, err := s.db.ListWatched(r.Context(), userID, 0)
	if err != nil {
		log.Printf("[history] failed to list history for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list history")
		return
	}
	if watched == nil {
		watched = []db.WatchedVideo{}
	}

	s.jsonResponse(w, http.StatusOK, watched)
}

// handleProgress returns aggregate watch stats and streaks.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.progressSummary(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleAchievements returns the user's badges, earned and locked.
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.progressSummary(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, progress.Badges(summary))
}

// progressSummary loads the per-topic totals and watch days for the
// authenticated user. On failure it writes the error response itself.
func (s *Server) progressSummary(w http.ResponseWriter, r *http.Request) (progress.Summary, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return progress.Summary{}, false
	}

	topics, err := s.db.MinutesByTopic(r.Context(), userID)
	if err != nil {
		log.Printf("[progress] failed to load topic totals for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load progress")
		return progress.Summary{}, false
	}

	days, err := s.db.WatchDays(r.Context(), userID)
	if err != nil {
		log.Printf("[progress] failed to load watch days for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load progress")
		return progress.Summary{}, false
	}

	return progress.BuildSummary(topics, days, time.Now()), true
}
