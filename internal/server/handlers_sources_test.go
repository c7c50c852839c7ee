package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/commute-coach/internal/db"
)

func TestBlockSource_Success(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()

	req := postJSON(t, "/blocked-sources", BlockSourceRequest{
		SourceID: "chan1",
		Reason:   "clickbait thumbnails",
	}, userID)
	w := httptest.NewRecorder()

	s.handleBlockSource(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, s.mock.blocked[userID], 1)
	assert.Equal(t, "chan1", s.mock.blocked[userID][0].SourceID)
}

func TestBlockSource_MissingID(t *testing.T) {
	s := newTestServer()

	req := postJSON(t, "/blocked-sources", BlockSourceRequest{Reason: "no id"}, uuid.New())
	w := httptest.NewRecorder()

	s.handleBlockSource(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBlockedSources(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()

	req := postJSON(t, "/blocked-sources", BlockSourceRequest{SourceID: "chan1"}, userID)
	w := httptest.NewRecorder()
	s.handleBlockSource(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	listReq := authedRequest(httptest.NewRequest(http.MethodGet, "/blocked-sources", nil), userID)
	w = httptest.NewRecorder()
	s.handleListBlockedSources(w, listReq)

	require.Equal(t, http.StatusOK, w.Code)

	var blocked []db.BlockedSource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blocked))
	require.Len(t, blocked, 1)
	assert.Equal(t, "chan1", blocked[0].SourceID)
}

func TestListBlockedSources_EmptyIsArray(t *testing.T) {
	s := newTestServer()

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/blocked-sources", nil), uuid.New())
	w := httptest.NewRecorder()

	s.handleListBlockedSources(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUnblockSource(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()

	req := postJSON(t, "/blocked-sources", BlockSourceRequest{SourceID: "chan1"}, userID)
	w := httptest.NewRecorder()
	s.handleBlockSource(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	delReq := authedRequest(httptest.NewRequest(http.MethodDelete, "/blocked-sources/chan1", nil), userID)
	delReq.SetPathValue("source_id", "chan1")
	w = httptest.NewRecorder()
	s.handleUnblockSource(w, delReq)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.mock.blocked[userID])
}
