package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/commute-coach/internal/db"
	"github.com/jonathan/commute-coach/internal/packer"
	"github.com/jonathan/commute-coach/internal/server/middleware"
	"github.com/jonathan/commute-coach/internal/types"
)

// handleBuildPack builds a pack under the legacy contract.
// Candidates may be supplied inline; otherwise they are fetched from the
// configured catalog source.
func (s *Server) handleBuildPack(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.BuildPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	level := types.Level("")
	if req.Level != "" {
		parsed, ok := types.ParseLevel(req.Level)
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown level: %s", req.Level))
			return
		}
		level = parsed
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates, err = s.fetchCandidates(r.Context(), req.Topic, level)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	blocked, err := s.userBlockedSources(r, userID, req.BlockedSourceIDs)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load blocked sources")
		return
	}

	result, err := packer.BuildPack(candidates, packer.Request{
		Topic:            req.Topic,
		Level:            level,
		MinDurationSec:   req.MinDurationSec,
		MaxDurationSec:   req.MaxDurationSec,
		ExcludedIDs:      req.ExcludedIDs,
		BlockedSourceIDs: blocked,
		Seed:             req.Seed,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondWithPack(w, r, userID, req.Topic, string(level), result, req.Save)
}

// handleBuildPackV2 builds a pack under the strict contract: level is
// mandatory and the window is derived from the target duration.
func (s *Server) handleBuildPackV2(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.BuildPackV2Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	level, ok := types.ParseLevel(req.Level)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown level: %s", req.Level))
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates, err = s.fetchCandidates(r.Context(), req.Topic, level)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	blocked, err := s.userBlockedSources(r, userID, req.BlockedSourceIDs)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load blocked sources")
		return
	}

	result, err := packer.BuildPackV2(candidates, packer.V2Request{
		Topic:            req.Topic,
		Level:            level,
		TargetSeconds:    req.TargetSeconds,
		ExcludedIDs:      req.ExcludedIDs,
		BlockedSourceIDs: blocked,
		Seed:             req.Seed,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondWithPack(w, r, userID, req.Topic, string(level), result, req.Save)
}

// handleListPacks lists the authenticated user's saved packs.
func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	packs, err := s.db.ListPacks(r.Context(), userID, 0)
	if err != nil {
		log.Printf("[packs] failed to list packs for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list packs")
		return
	}

	responses := make([]types.PackResponse, 0, len(packs))
	for i := range packs {
		responses = append(responses, savedPackResponse(&packs[i]))
	}
	s.jsonResponse(w, http.StatusOK, responses)
}

// handleGetPack returns a single saved pack owned by the authenticated user.
func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	packID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid pack ID")
		return
	}

	pack, err := s.db.GetPack(r.Context(), packID)
	if err != nil {
		log.Printf("[packs] failed to get pack %s: %v", packID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get pack")
		return
	}
	// Missing and not-owned look the same to the caller
	if pack == nil || pack.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Pack not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, savedPackResponse(pack))
}

// handleDeletePack deletes a saved pack owned by the authenticated user.
func (s *Server) handleDeletePack(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	packID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid pack ID")
		return
	}

	if err := s.db.DeletePack(r.Context(), packID, userID); err != nil {
		s.errorResponse(w, http.StatusNotFound, "Pack not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Pack deleted"})
}

// fetchCandidates pulls candidates from the configured catalog source.
func (s *Server) fetchCandidates(ctx context.Context, topic string, level types.Level) ([]types.Candidate, error) {
	if s.source == nil {
		return nil, &ErrCatalogUnavailable{Cause: fmt.Errorf("no catalog source configured")}
	}
	candidates, err := s.source.Fetch(ctx, topic, level)
	if err != nil {
		log.Printf("[catalog] fetch failed for topic %q: %v", topic, err)
		return nil, &ErrCatalogUnavailable{Cause: err}
	}
	return candidates, nil
}

// userBlockedSources merges the request's blocked sources with the user's
// persisted blocklist.
func (s *Server) userBlockedSources(r *http.Request, userID uuid.UUID, fromRequest []string) ([]string, error) {
	persisted, err := s.db.BlockedSourceIDs(r.Context(), userID)
	if err != nil {
		log.Printf("[sources] failed to load blocked sources for %s: %v", userID, err)
		return nil, err
	}
	if len(persisted) == 0 {
		return fromRequest, nil
	}
	merged := make([]string, 0, len(fromRequest)+len(persisted))
	merged = append(merged, fromRequest...)
	merged = append(merged, persisted...)
	return merged, nil
}

// respondWithPack writes a built pack, optionally persisting it first.
func (s *Server) respondWithPack(w http.ResponseWriter, r *http.Request, userID uuid.UUID, topic, level string, result *packer.Result, save bool) {
	resp := types.PackResponse{
		Topic:            topic,
		Level:            level,
		Items:            result.Items,
		TotalDurationSec: result.TotalDurationSec,
		UnderFilled:      result.UnderFilled,
	}
	if len(resp.Items) == 0 {
		resp.Items = []types.Candidate{}
		resp.Message = "No matching videos found for this window"
	}

	if save {
		id, err := s.db.SavePack(r.Context(), &db.SavedPack{
			UserID:           userID,
			Topic:            topic,
			Level:            level,
			Items:            db.CandidateList(result.Items),
			TotalDurationSec: result.TotalDurationSec,
			UnderFilled:      result.UnderFilled,
		})
		if err != nil {
			log.Printf("[packs] failed to save pack for %s: %v", userID, err)
			s.errorResponse(w, http.StatusInternalServerError, "Failed to save pack")
			return
		}
		resp.ID = &id
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// savedPackResponse converts a stored pack to its API shape.
func savedPackResponse(p *db.SavedPack) types.PackResponse {
	items := []types.Candidate(p.Items)
	if items == nil {
		items = []types.Candidate{}
	}
	createdAt := p.CreatedAt
	id := p.ID
	return types.PackResponse{
		ID:               &id,
		Topic:            p.Topic,
		Level:            p.Level,
		Items:            items,
		TotalDurationSec: p.TotalDurationSec,
		UnderFilled:      p.UnderFilled,
		CreatedAt:        &createdAt,
	}
}
