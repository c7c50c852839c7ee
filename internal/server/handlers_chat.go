package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/commute-coach/internal/intent"
	"github.com/jonathan/commute-coach/internal/packer"
	"github.com/jonathan/commute-coach/internal/server/middleware"
	"github.com/jonathan/commute-coach/internal/types"
)

// chatStage is a pipeline step reported to the client on the SSE stream.
type chatStage struct {
	name   string
	detail string
}

// handleChat runs the chat pipeline and returns the final pack.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resp, err := s.runChatPipeline(r.Context(), userID, &req, nil)
	if err != nil {
		s.errorResponse(w, chatErrorStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleChatStream runs the chat pipeline with stage events on an SSE stream.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := s.runChatPipeline(r.Context(), userID, &req, func(stage chatStage) {
		sse.WriteStage(stage.name, stage.detail)
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	sse.WriteEvent("pack", resp) //nolint:errcheck
}

// runChatPipeline extracts intent from the message, fetches candidates,
// excludes already-watched videos and the user's blocked sources, and builds
// a strict pack around the commute length.
func (s *Server) runChatPipeline(ctx context.Context, userID uuid.UUID, req *types.ChatRequest, report func(chatStage)) (*types.ChatResponse, error) {
	if report == nil {
		report = func(chatStage) {}
	}
	if s.llmClient == nil {
		return nil, fmt.Errorf("chat is not configured on this server")
	}

	report(chatStage{name: "intent", detail: "extracting topic, level and commute length"})
	extracted, err := intent.Extract(ctx, s.llmClient, req.Message, req.CommuteMinutes)
	if err != nil {
		return nil, err
	}

	level, _ := types.ParseLevel(extracted.Level)

	report(chatStage{name: "catalog", detail: fmt.Sprintf("fetching %s videos for %q", extracted.Level, extracted.Topic)})
	candidates, err := s.fetchCandidates(ctx, extracted.Topic, level)
	if err != nil {
		return nil, err
	}

	report(chatStage{name: "history", detail: "excluding already-watched videos"})
	watched, err := s.db.WatchedIDs(ctx, userID, extracted.Topic)
	if err != nil {
		log.Printf("[chat] failed to load watch history for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to load watch history")
	}
	blocked, err := s.db.BlockedSourceIDs(ctx, userID)
	if err != nil {
		log.Printf("[chat] failed to load blocked sources for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to load blocked sources")
	}

	report(chatStage{name: "pack", detail: fmt.Sprintf("building a %d-minute pack", extracted.CommuteMinutes)})
	result, err := packer.BuildPackV2(candidates, packer.V2Request{
		Topic:            extracted.Topic,
		Level:            level,
		TargetSeconds:    extracted.TargetSeconds(),
		ExcludedIDs:      watched,
		BlockedSourceIDs: blocked,
	})
	if err != nil {
		return nil, err
	}

	pack := types.PackResponse{
		Topic:            extracted.Topic,
		Level:            extracted.Level,
		Items:            result.Items,
		TotalDurationSec: result.TotalDurationSec,
		UnderFilled:      result.UnderFilled,
	}
	if len(pack.Items) == 0 {
		pack.Items = []types.Candidate{}
		pack.Message = "No matching videos found for this commute"
	}

	return &types.ChatResponse{
		Intent: *extracted,
		Pack:   pack,
	}, nil
}

// chatErrorStatus maps pipeline errors to HTTP status codes.
func chatErrorStatus(err error) int {
	switch err.(type) {
	case *intent.ValidationError, *intent.ParseError:
		return http.StatusBadRequest
	case *intent.APICallError:
		return http.StatusBadGateway
	case *packer.Error:
		return http.StatusBadRequest
	case *ErrCatalogUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
