package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/commute-coach/internal/db"
	"github.com/jonathan/commute-coach/internal/llm"
	"github.com/jonathan/commute-coach/internal/types"
)

// stubLLM returns a canned JSON response for intent extraction
type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) GetModel(_ llm.ModelTier) string { return "stub" }

func (s *stubLLM) Close() error { return nil }

func chatServer(intentJSON string) *testServer {
	s := newTestServer()
	s.llmClient = &stubLLM{response: intentJSON}
	s.source = &stubCatalog{candidates: testPool()}
	return s
}

func TestChat_BuildsPack(t *testing.T) {
	s := chatServer(`{"topic": "python", "level": "beginner", "commute_minutes": 15}`)
	userID := uuid.New()

	req := postJSON(t, "/chat", types.ChatRequest{Message: "15 minute ride, teach me python basics"}, userID)
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "python", resp.Intent.Topic)
	assert.Equal(t, "beginner", resp.Intent.Level)
	assert.Equal(t, 15, resp.Intent.CommuteMinutes)

	// 900s target, band 60: 180+300+420 = 900 fits exactly
	assert.Equal(t, 900, resp.Pack.TotalDurationSec)
	assert.False(t, resp.Pack.UnderFilled)
}

func TestChat_ExcludesWatched(t *testing.T) {
	s := chatServer(`{"topic": "python", "level": "beginner", "commute_minutes": 15}`)
	userID := uuid.New()

	// Already watched v2; the remaining python pool is 180+300 = 480
	require.NoError(t, s.mock.MarkWatched(context.Background(), &db.WatchedVideo{
		UserID: userID, VideoID: "v2", Topic: "python", DurationSec: 420, WatchedAt: time.Now(),
	}))

	req := postJSON(t, "/chat", types.ChatRequest{Message: "15 minute ride, teach me python basics"}, userID)
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, item := range resp.Pack.Items {
		assert.NotEqual(t, "v2", item.ID, "watched video should be excluded")
	}
	assert.True(t, resp.Pack.UnderFilled)
}

func TestChat_KnownMinutesOverride(t *testing.T) {
	// The model reports 45 minutes but the client already knows it is 15
	s := chatServer(`{"topic": "python", "level": "beginner", "commute_minutes": 45}`)

	req := postJSON(t, "/chat", types.ChatRequest{
		Message:        "teach me python basics",
		CommuteMinutes: 15,
	}, uuid.New())
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.Intent.CommuteMinutes)
}

func TestChat_EmptyMessage(t *testing.T) {
	s := chatServer(`{}`)

	req := postJSON(t, "/chat", types.ChatRequest{}, uuid.New())
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_LLMFailure(t *testing.T) {
	s := newTestServer()
	s.llmClient = &stubLLM{err: fmt.Errorf("quota exceeded")}
	s.source = &stubCatalog{candidates: testPool()}

	req := postJSON(t, "/chat", types.ChatRequest{Message: "teach me python"}, uuid.New())
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestChat_MalformedIntent(t *testing.T) {
	s := chatServer(`{"topic": "python", "level": "wizard", "commute_minutes": 15}`)

	req := postJSON(t, "/chat", types.ChatRequest{Message: "teach me python"}, uuid.New())
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_NotConfigured(t *testing.T) {
	s := newTestServer() // no llm client

	req := postJSON(t, "/chat", types.ChatRequest{Message: "teach me python"}, uuid.New())
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChatStream_EmitsStagesAndPack(t *testing.T) {
	s := chatServer(`{"topic": "python", "level": "beginner", "commute_minutes": 15}`)

	req := postJSON(t, "/chat/stream", types.ChatRequest{Message: "15 minute ride, python please"}, uuid.New())
	w := httptest.NewRecorder()

	s.handleChatStream(w, req)

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	for _, stage := range []string{"intent", "catalog", "history", "pack"} {
		assert.Contains(t, body, fmt.Sprintf(`"stage":"%s"`, stage))
	}
	assert.Contains(t, body, "event: pack")
	assert.NotContains(t, body, "event: error")
}

func TestChatStream_ErrorEvent(t *testing.T) {
	s := newTestServer()
	s.llmClient = &stubLLM{err: fmt.Errorf("quota exceeded")}
	s.source = &stubCatalog{candidates: testPool()}

	req := postJSON(t, "/chat/stream", types.ChatRequest{Message: "teach me python"}, uuid.New())
	w := httptest.NewRecorder()

	s.handleChatStream(w, req)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "event: error"), "expected error event, got: %s", body)
}
